package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter throttles write traffic per client IP. Entries that go quiet
// are pruned so the map does not grow without bound.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const clientIdleTTL = 10 * time.Minute

func newRateLimiter(limit rate.Limit, burst int) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
	}
}

// Limit is chi middleware that rejects over-limit requests with a 429.
func (rl *rateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests", "RATE_LIMITED")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[ip]
	if !ok {
		rl.prune(now)
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// prune drops idle clients. Called with rl.mu held.
func (rl *rateLimiter) prune(now time.Time) {
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > clientIdleTTL {
			delete(rl.clients, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	// middleware.RealIP has already rewritten RemoteAddr from the
	// forwarding headers when present.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
