package milestone

// TodayPolicy picks the milestone reported as today's reward when more than
// one milestone lands on the same day.
type TodayPolicy int

const (
	// TieBreakLargestThreshold prefers the biggest achievement; among equal
	// thresholds the last one in set order wins.
	TieBreakLargestThreshold TodayPolicy = iota
	// TieBreakLastInOrder prefers the last qualifying milestone in set order,
	// regardless of threshold.
	TieBreakLastInOrder
)

func (p TodayPolicy) String() string {
	switch p {
	case TieBreakLastInOrder:
		return "last-in-order"
	default:
		return "largest-threshold"
	}
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTodayPolicy overrides the same-day tie-break policy.
func WithTodayPolicy(p TodayPolicy) Option {
	return func(e *Evaluator) {
		e.today = p
	}
}

// Evaluator answers reward queries for one tracked person. It holds no state
// besides its milestone set, so every query is recomputed from scratch.
type Evaluator struct {
	milestones []Milestone
	today      TodayPolicy
}

// NewEvaluator copies milestones, preserving order and duplicates.
func NewEvaluator(milestones []Milestone, opts ...Option) *Evaluator {
	e := &Evaluator{milestones: append([]Milestone(nil), milestones...)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TodayReward returns the milestone earned exactly on day progress.
// Day zero never counts.
func (e *Evaluator) TodayReward(progress int) (Milestone, bool) {
	if progress == 0 {
		return Milestone{}, false
	}
	var (
		best  Milestone
		found bool
	)
	for _, m := range e.milestones {
		if progress%m.Threshold != 0 {
			continue
		}
		switch e.today {
		case TieBreakLastInOrder:
			best, found = m, true
		default:
			// >= lets a later duplicate threshold replace an earlier one.
			if !found || m.Threshold >= best.Threshold {
				best, found = m, true
			}
		}
	}
	return best, found
}

// NextUnearnedReward returns the nearest milestone never reached yet, with a
// linear countdown to its first achievement. Equal thresholds resolve to the
// first one in set order.
func (e *Evaluator) NextUnearnedReward(progress int) (Upcoming, bool) {
	var (
		best  Milestone
		found bool
	)
	for _, m := range e.milestones {
		if m.Threshold <= progress {
			continue
		}
		if !found || m.Threshold < best.Threshold {
			best, found = m, true
		}
	}
	if !found {
		return Upcoming{}, false
	}
	return Upcoming{Milestone: best, Days: best.DaysUntilFirst(progress)}, true
}

// EarnedRewards lists milestones passed at least once before today, in set
// order, each with the countdown to its next recurrence. A milestone whose
// threshold equals progress is today's reward and is not listed here.
func (e *Evaluator) EarnedRewards(progress int) []Upcoming {
	var earned []Upcoming
	for _, m := range e.milestones {
		if m.Threshold >= progress {
			continue
		}
		earned = append(earned, Upcoming{Milestone: m, Days: m.DaysRemaining(progress)})
	}
	return earned
}
