package interfaces

import "time"

// -----------------------------------------------------------------------------
// IClock abstracts wall time and timers so reconnect backoff and heartbeat
// scheduling are testable without sleeping.
// -----------------------------------------------------------------------------

type IClock interface {

	// -----------------------------------------------------------------------------

	// Now returns the current wall time.
	Now() time.Time

	// -----------------------------------------------------------------------------

	// NewTimer fires once after d.
	NewTimer(d time.Duration) ITimer

	// -----------------------------------------------------------------------------

	// NewTicker fires repeatedly every d.
	NewTicker(d time.Duration) ITicker
}

type ITimer interface {

	// C returns the firing channel.
	C() <-chan time.Time

	// Stop cancels the timer. It reports whether the timer was still pending.
	Stop() bool
}

type ITicker interface {

	// C returns the tick channel.
	C() <-chan time.Time

	// Stop cancels the ticker.
	Stop()
}
