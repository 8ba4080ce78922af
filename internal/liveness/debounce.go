package liveness

import "time"

// Debouncer arms a phase transition only after the target pose has been
// held for a fixed number of consecutive frames and the phase has been
// active for a minimum dwell time. Both gates are hard: a burst of
// near-instant frames cannot complete a maneuver meant to take real,
// observable time.
type Debouncer struct {
	required int
	minDwell time.Duration
	count    int
}

// NewDebouncer creates a debouncer for one session.
func NewDebouncer(requiredFrames int, minDwell time.Duration) *Debouncer {
	return &Debouncer{required: requiredFrames, minDwell: minDwell}
}

// Observe records one frame and reports whether the transition is
// armed. A disqualifying frame resets the consecutive counter to zero;
// the dwell clock is owned by the session and keeps running, so a brief
// lapse costs the subject frames, not the whole phase timer.
func (d *Debouncer) Observe(qualified bool, elapsed time.Duration) bool {
	if !qualified {
		d.count = 0
		return false
	}
	d.count++
	return d.count >= d.required && elapsed >= d.minDwell
}

// Reset clears the consecutive counter, used on phase commit and on
// rejected frames.
func (d *Debouncer) Reset() {
	d.count = 0
}

// Count returns the current consecutive qualifying frame count.
func (d *Debouncer) Count() int {
	return d.count
}
