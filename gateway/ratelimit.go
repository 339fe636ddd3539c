package gateway

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"zupytoken/config"
)

// RateLimiter throttles route groups per client address. Routes without a
// configured limit pass through untouched.
type RateLimiter struct {
	limits map[string]config.RateLimit

	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

// NewRateLimiter builds a limiter from the configured route limits.
func NewRateLimiter(limits map[string]config.RateLimit) *RateLimiter {
	return &RateLimiter{
		limits:   limits,
		visitors: make(map[string]*rate.Limiter),
	}
}

// Middleware throttles the route group named key.
func (r *RateLimiter) Middleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			limit, ok := r.limits[key]
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			if !r.limiterFor(key, clientID(req), limit).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (r *RateLimiter) limiterFor(key, client string, limit config.RateLimit) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := key + "|" + client
	limiter, ok := r.visitors[id]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(limit.RequestsPerMinute/60.0), limit.Burst)
		r.visitors[id] = limiter
	}
	return limiter
}

func clientID(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
