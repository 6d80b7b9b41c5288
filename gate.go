package quicktrace

import "time"

// DefaultMinDuration is the minimum total duration reported by DefaultGate.
const DefaultMinDuration = 100 * time.Millisecond

// Gate decides, once per End, whether a finished trace is reported.
// It sees the tracer after the terminal "End" checkpoint has been appended.
// A false result suppresses rendering only; collected data is kept.
type Gate func(t *Tracer) bool

// DefaultGate reports traces whose total duration is at least DefaultMinDuration.
func DefaultGate() Gate {
	return MinTotalDuration(DefaultMinDuration)
}

// MinTotalDuration reports traces whose total duration is at least d.
// A finished tracer is judged on the total snapshotted by End, the same
// value the report carries.
func MinTotalDuration(d time.Duration) Gate {
	return func(t *Tracer) bool {
		return t.total() >= d
	}
}

// MinSpanDuration reports traces in which at least one checkpoint,
// including the terminal one, took d or longer.
func MinSpanDuration(d time.Duration) Gate {
	return func(t *Tracer) bool {
		for _, m := range t.measurements {
			if m.Elapsed >= d {
				return true
			}
		}
		return false
	}
}

// Always reports every trace.
func Always() Gate {
	return func(*Tracer) bool { return true }
}
