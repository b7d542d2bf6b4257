package monitor

import "time"

// -----------------------------------------------------------------------------
// ReconnectBudget tracks how many automatic reconnections remain and what the
// next one costs. It is a plain value: transitions return a new budget, so
// the schedule is testable without a clock or a connection.
// -----------------------------------------------------------------------------

type ReconnectBudget struct {
	Attempts  int
	Max       int
	BaseDelay time.Duration
}

// -----------------------------------------------------------------------------

// NewReconnectBudget creates a fresh budget with zero attempts spent.
func NewReconnectBudget(max int, baseDelay time.Duration) ReconnectBudget {
	return ReconnectBudget{Max: max, BaseDelay: baseDelay}
}

// -----------------------------------------------------------------------------

// Next spends one attempt and returns the delay before it. The attempt
// counter increments before the delay is computed, so the first retry waits
// BaseDelay * 2^1 rather than 2^0. ok is false when the budget is exhausted;
// the caller parks in the failed state and must not retry.
func (b ReconnectBudget) Next() (ReconnectBudget, time.Duration, bool) {
	if b.Attempts >= b.Max {
		return b, 0, false
	}
	b.Attempts++
	return b, b.BaseDelay * (1 << b.Attempts), true
}

// -----------------------------------------------------------------------------

// Reset clears spent attempts. Called exactly once per successful handshake.
func (b ReconnectBudget) Reset() ReconnectBudget {
	b.Attempts = 0
	return b
}

// -----------------------------------------------------------------------------

// Exhausted reports whether no attempts remain.
func (b ReconnectBudget) Exhausted() bool {
	return b.Attempts >= b.Max
}
