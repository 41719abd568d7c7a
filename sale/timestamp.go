package sale

import "time"

// Timestamp is a Unix timestamp in seconds. Sale windows and the price
// engine work in whole seconds; sub-second resolution has no effect on
// tier boundaries.
type Timestamp uint64

// Now returns the current wall-clock time as a Timestamp.
func Now() Timestamp {
	return FromTime(time.Now())
}

// FromTime converts a time.Time to a Timestamp, clamping pre-epoch times to zero.
func FromTime(t time.Time) Timestamp {
	u := t.Unix()
	if u < 0 {
		return 0
	}
	return Timestamp(u)
}

// Time converts the Timestamp back to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Add returns the timestamp shifted forward by d (truncated to seconds).
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d/time.Second)
}

// Sub returns t-other in seconds, saturating at zero instead of wrapping.
func (t Timestamp) Sub(other Timestamp) uint64 {
	if t <= other {
		return 0
	}
	return uint64(t - other)
}
