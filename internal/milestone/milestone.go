// Package milestone evaluates reward milestones against a "days since last
// incident" progress count.
package milestone

// Milestone is a reward rule that recurs every Threshold days.
// Threshold is always positive; rows that violate this are dropped
// by the parsers in package source before a Milestone is built.
type Milestone struct {
	Threshold   int
	Description string
}

// DaysRemaining returns the countdown to the next recurrence of m.
// Exact multiples of Threshold (including zero) yield Threshold, never 0.
func (m Milestone) DaysRemaining(progress int) int {
	return m.Threshold - (progress % m.Threshold)
}

// DaysUntilFirst returns the linear countdown to the first time m is reached.
// Only meaningful while progress < Threshold.
func (m Milestone) DaysUntilFirst(progress int) int {
	return m.Threshold - progress
}

// Upcoming pairs a milestone with the number of days left until it is due.
type Upcoming struct {
	Milestone Milestone
	Days      int
}
