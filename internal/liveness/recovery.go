package liveness

import "time"

// recovery tracks consecutive frame rejections inside a rolling time
// window. Exhausting the budget forces a full session reset instead of
// leaving the session stuck in a transient error state.
type recovery struct {
	window    time.Duration
	limit     int
	count     int
	lastError time.Time
}

// observe records a rejection at now and reports whether the error
// budget is exhausted. Rejections further apart than the window restart
// the count at 1.
func (r *recovery) observe(now time.Time) bool {
	if !r.lastError.IsZero() && now.Sub(r.lastError) <= r.window {
		r.count++
	} else {
		r.count = 1
	}
	r.lastError = now
	return r.count >= r.limit
}

// reset zeroes the counter, used on forced reset.
func (r *recovery) reset() {
	r.count = 0
	r.lastError = time.Time{}
}
