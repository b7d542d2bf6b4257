package utils

import (
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"
)

// -----------------------------------------------------------------------------
// SystemClock is the production IClock backed by the runtime timers.
// -----------------------------------------------------------------------------

type SystemClock struct{}

// -----------------------------------------------------------------------------

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// -----------------------------------------------------------------------------

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// -----------------------------------------------------------------------------

func (c *SystemClock) NewTimer(d time.Duration) interfaces.ITimer {
	return &systemTimer{t: time.NewTimer(d)}
}

// -----------------------------------------------------------------------------

func (c *SystemClock) NewTicker(d time.Duration) interfaces.ITicker {
	return &systemTicker{t: time.NewTicker(d)}
}

// -----------------------------------------------------------------------------

type systemTimer struct {
	t *time.Timer
}

func (s *systemTimer) C() <-chan time.Time {
	return s.t.C
}

func (s *systemTimer) Stop() bool {
	return s.t.Stop()
}

// -----------------------------------------------------------------------------

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s *systemTicker) Stop() {
	s.t.Stop()
}
