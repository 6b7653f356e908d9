package rhythm

import (
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter admits at most one event per window. Events inside an active
// window are dropped, never queued.
type RateLimiter struct {
	window time.Duration
	lim    *rate.Limiter
	epoch  time.Time
}

func NewRateLimiter(window time.Duration) *RateLimiter {
	return &RateLimiter{
		window: window,
		lim:    rate.NewLimiter(rate.Every(window), 1),
		epoch:  time.Unix(0, 0),
	}
}

// Allow reports whether an event at clock time now (seconds) is admitted.
func (r *RateLimiter) Allow(now float64) bool {
	return r.lim.AllowN(r.epoch.Add(time.Duration(now*float64(time.Second))), 1)
}

func (r *RateLimiter) Window() time.Duration { return r.window }
