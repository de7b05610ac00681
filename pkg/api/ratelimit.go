package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterTTL is how long an idle client's token bucket is kept before it is
// pruned.
const limiterTTL = 10 * time.Minute

type clientLimiter struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// rateLimitMiddleware limits each client IP to requestsPerMinute requests,
// allowing bursts up to the full per-minute allowance. Idle buckets are
// pruned inline on the next request after limiterTTL, so the middleware
// needs no background goroutine.
func (s *server) rateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	var (
		mu         sync.Mutex
		clients    = make(map[string]*clientLimiter)
		perSecond  = rate.Limit(float64(requestsPerMinute) / 60.0)
		lastPruned = time.Now()
	)

	allow := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()

		if now.Sub(lastPruned) > limiterTTL {
			for addr, c := range clients {
				if now.Sub(c.lastSeen) > limiterTTL {
					delete(clients, addr)
				}
			}

			lastPruned = now
		}

		c, ok := clients[ip]
		if !ok {
			c = &clientLimiter{bucket: rate.NewLimiter(perSecond, requestsPerMinute)}
			clients[ip] = c
		}

		c.lastSeen = now

		return c.bucket.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(clientIP(r)) {
				writeJSON(w, http.StatusTooManyRequests,
					errorResponse{"rate limit exceeded"})

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the requester's address, preferring the first hop of an
// X-Forwarded-For chain set by a reverse proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
