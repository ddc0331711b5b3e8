package http_pack

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const rateLimitIdleTTL = 10 * time.Minute

// IPRateLimiter applies a token bucket per client IP and periodically evicts idle entries.
type IPRateLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	byKey map[string]*rateLimitEntry
	hits  uint64
}

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter returns nil when rps is not positive. A nil limiter allows everything.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &IPRateLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		byKey: make(map[string]*rateLimitEntry),
	}
}

func (l *IPRateLimiter) Allow(key string, now time.Time) bool {

	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &rateLimitEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-rateLimitIdleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return allowed

}
