package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/util"
)

// FormatProgress renders the streak line. Day zero gets its own wording.
func FormatProgress(progress int) string {
	if progress <= 0 {
		return "Today is a\nDay of Integrity"
	}
	return fmt.Sprintf("%d %s\nof Integrity!", progress, util.Pluralize("Day", progress))
}

// FormatHeadline renders the reward line that leads a panel.
func FormatHeadline(r milestone.Result) string {
	switch r.Headline() {
	case milestone.HeadlineToday:
		return fmt.Sprintf("Today's Reward:\n%s!", r.Today.Description)
	case milestone.HeadlineNext:
		return fmt.Sprintf("%d more %s for\n%s!", r.Next.Days, util.Pluralize("day", r.Next.Days), r.Next.Milestone.Description)
	case milestone.HeadlineEarned:
		return config.AllRewardsText
	default:
		return config.NoRewardsText
	}
}

// FormatMinorReward renders one recurring reward line.
func FormatMinorReward(u milestone.Upcoming) string {
	return fmt.Sprintf(" - %d %s for %s", u.Days, util.Pluralize("day", u.Days), u.Milestone.Description)
}

// MinorRewards returns the supporting lines for a panel, capped at limit.
// They are hidden whenever a reward is earned today.
func MinorRewards(r milestone.Result, limit int) []string {
	if r.Headline() == milestone.HeadlineToday {
		return nil
	}
	lines := make([]string, 0, len(r.Earned))
	for i, u := range r.Earned {
		if limit > 0 && i == limit {
			lines = append(lines, fmt.Sprintf("   +%d more", len(r.Earned)-limit))
			break
		}
		lines = append(lines, FormatMinorReward(u))
	}
	return lines
}

// FormatLastUpdated renders the footer timestamp.
func FormatLastUpdated(t time.Time) string {
	return "Last updated: " + t.Format(config.TimestampLayout)
}

// FormatFetchError renders the footer after a failed refresh.
func FormatFetchError(err error) string {
	return fmt.Sprintf("Error fetching data: %v", err)
}

// PlainBoard renders the boards without styling, for pipes and cron mail.
func PlainBoard(boards []models.Board, quote string) string {
	var b strings.Builder
	for i, board := range boards {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(board.Person + "\n")
		b.WriteString(strings.ReplaceAll(FormatProgress(board.Progress), "\n", " ") + "\n")
		b.WriteString(strings.ReplaceAll(FormatHeadline(board.Result), "\n", " ") + "\n")
		for _, line := range MinorRewards(board.Result, 0) {
			b.WriteString(line + "\n")
		}
	}
	if quote != "" {
		b.WriteString("\n" + quote + "\n")
	}
	return b.String()
}
