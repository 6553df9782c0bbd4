package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*clientLimiter
	limit      rate.Limit
	burst      int
	trustProxy bool
	now        func() time.Time
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
// X-Forwarded-For is only honoured when trustProxy is set.
func NewRateLimiter(perMinute, burst int, trustProxy bool) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*clientLimiter),
		limit:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      burst,
		trustProxy: trustProxy,
		now:        time.Now,
	}
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.limiters[ip]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = l.now()
	return entry.limiter
}

// Len reports how many clients are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Sweep drops limiters not used within idle and returns how many were removed.
func (l *RateLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps idle limiters every interval until ctx is cancelled.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(interval); n > 0 {
				log.Debug().Int("count", n).Msg("swept idle rate limiters")
			}
		}
	}
}

// Limit wraps a handler so callers over their budget get 429.
func (l *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.getLimiter(ip).Allow() {
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Rate limit exceeded. Try again later."}`))
			return
		}
		next(w, r)
	}
}

func (l *RateLimiter) clientIP(r *http.Request) string {
	if l.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
