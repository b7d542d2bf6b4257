package utils

import "time"

// -----------------------------------------------------------------------------

// Defaults shared across packages. Timestamps travel as Unix milliseconds
// end to end (wire, storage, API), matching the monitoring stream.
const (
	DefaultNotificationHistory = 100
)

// -----------------------------------------------------------------------------

// UnixMs converts a wall time to the millisecond timestamps used on the wire.
func UnixMs(t time.Time) int64 {
	return t.UnixMilli()
}
