package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per client address.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows perMinute attempts per address, with bursts of
// the same size. Addresses unseen for ten minutes are forgotten.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one attempt for addr.
func (l *LoginLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, c := range l.limiters {
		if now.Sub(c.lastSeen) > l.idle {
			delete(l.limiters, key)
		}
	}

	c, ok := l.limiters[addr]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[addr] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) loginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.LoginLimiter != nil && !s.LoginLimiter.Allow(clientAddr(r)) {
			logger.FromContext(r.Context()).Warn("login attempts exhausted for %s", clientAddr(r))
			w.Header().Set("Retry-After", "60")
			handleError(w, r, errors.NewRateLimitedError("too many login attempts, try again later"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
