// Package ratelimit builds the per-client request limiters placed in front of
// sensitive endpoints.
package ratelimit

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
)

// Message is returned to clients that exhausted their window.
const Message = "Too many attempts, please try again after 15 minutes."

// Factory creates independent limiters sharing one configuration.
type Factory struct {
	Requests int
	Window   time.Duration
	// Redis, when set, stores counters in Redis instead of process memory.
	Redis *redis.Client
}

// New returns a middleware limiting each client IP to Requests per Window.
// Limiters built with different names never share counters.
func (f Factory) New(name string) func(http.Handler) http.Handler {
	var counter httprate.LimitCounter
	if f.Redis != nil {
		counter = NewRedisCounter(f.Redis, "ratelimit:"+name)
	} else {
		counter = NewMemoryCounter()
	}
	return httprate.Limit(f.Requests, f.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitCounter(counter),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Failure(w, http.StatusTooManyRequests, Message)
		}),
	)
}
