package config

// Layout constants.
const (
	// MinPanelWidth is the narrowest a person panel is drawn.
	MinPanelWidth = 24

	// PanelGap is the horizontal space between person panels.
	PanelGap = 4

	// CompactModeThreshold stacks panels vertically below this width.
	CompactModeThreshold = 60
)

// Display limits.
const (
	// MaxMinorRewards limits recurring rewards listed per person.
	MaxMinorRewards = 8

	// TruncationSuffix appended to truncated strings.
	TruncationSuffix = "..."
)

// Text shown on the board.
const (
	Tagline         = "(no lying, cheating, stealing, or sneaking)"
	AllRewardsText  = "All rewards reached! Keep it going!"
	NoRewardsText   = "No rewards configured yet."
	LoadingText     = "Loading..."
	TimestampLayout = "2006-01-02 15:04:05"
)
