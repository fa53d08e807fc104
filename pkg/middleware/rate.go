package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/honeyshop/pkg/response"
)

// window counts requests from one client within a fixed interval.
type window struct {
	count   int
	resetAt time.Time
}

type limiter struct {
	mu        sync.Mutex
	max       int
	every     time.Duration
	clients   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

func newLimiter(max int, every time.Duration) *limiter {
	return &limiter{max: max, every: every, clients: map[string]*window{}, now: time.Now}
}

func (l *limiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.nextSweep = now.Add(l.every)
	}

	w, ok := l.clients[client]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.every)}
		l.clients[client] = w
	}
	w.count++
	return w.count <= l.max
}

// RateLimit allows each client IP max requests per interval.
func RateLimit(max int, every time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, every)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(ClientIP(r)) {
				w.Header().Set("Retry-After", every.String())
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the peer
// address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
