package milestone

// Headline identifies which part of a Result the display leads with.
type Headline int

const (
	// HeadlineNone means there is nothing left to chase, or no milestones at all.
	HeadlineNone Headline = iota
	// HeadlineToday means a reward was earned today; Next and Earned are hidden.
	HeadlineToday
	// HeadlineNext means the next unearned reward leads and Earned supports it.
	HeadlineNext
	// HeadlineEarned means every milestone has been reached once; only the
	// recurring countdowns remain.
	HeadlineEarned
)

// Result is the full evaluation for one progress value.
type Result struct {
	Progress int
	Today    *Milestone
	Next     *Upcoming
	Earned   []Upcoming
}

// Evaluate runs all three queries for progress.
func (e *Evaluator) Evaluate(progress int) Result {
	r := Result{Progress: progress, Earned: e.EarnedRewards(progress)}
	if m, ok := e.TodayReward(progress); ok {
		r.Today = &m
	}
	if u, ok := e.NextUnearnedReward(progress); ok {
		r.Next = &u
	}
	return r
}

// Headline applies the display priority: today's reward suppresses the
// other two queries.
func (r Result) Headline() Headline {
	switch {
	case r.Today != nil:
		return HeadlineToday
	case r.Next != nil:
		return HeadlineNext
	case len(r.Earned) > 0:
		return HeadlineEarned
	default:
		return HeadlineNone
	}
}
