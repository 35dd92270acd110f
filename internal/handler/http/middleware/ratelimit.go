package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/respond"
)

var errTooManyRequests = errors.New("too many requests")

var rateLimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Requests rejected by a client rate limiter",
	},
	[]string{"limiter"},
)

// KeyFunc names the client a request is charged to. An empty key skips the
// limiter.
type KeyFunc func(r *http.Request) string

// ByUserOrIP charges authenticated requests to the user and the rest to the
// client address.
func ByUserOrIP(ips IPExtractor) KeyFunc {
	return func(r *http.Request) string {
		if p, ok := auth.UserFromContext(r.Context()); ok {
			return "user:" + strconv.FormatInt(p.UserID, 10)
		}
		return ByIP(ips)(r)
	}
}

// ByIP charges requests to the client address.
func ByIP(ips IPExtractor) KeyFunc {
	return func(r *http.Request) string {
		ip, err := ips.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			return r.RemoteAddr
		}
		return "ip:" + ip
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client key.
type ClientLimiter struct {
	name  string
	limit rate.Limit
	burst int
	key   KeyFunc
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// NewClientLimiter allows perSecond sustained requests with the given burst
// for every client key.
func NewClientLimiter(name string, perSecond float64, burst int, key KeyFunc) *ClientLimiter {
	return &ClientLimiter{
		name:    name,
		limit:   rate.Limit(perSecond),
		burst:   burst,
		key:     key,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Allow takes a token for key. When the bucket is empty it reports how long
// the client should wait.
func (l *ClientLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (l *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		ok, wait := l.Allow(key)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
		if !ok {
			rateLimitRejections.WithLabelValues(l.name).Inc()
			slog.Warn("rate limit exceeded",
				slog.String("limiter", l.name),
				slog.String("client", key),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			respond.SafeError(w, http.StatusTooManyRequests, errTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune drops clients idle for longer than idle and returns how many remain.
func (l *ClientLimiter) Prune(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
	return len(l.clients)
}

// RunCleanup prunes idle clients every interval until ctx is done.
func (l *ClientLimiter) RunCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining := l.Prune(idle)
			slog.Debug("rate limiter: cleanup completed",
				slog.String("limiter", l.name),
				slog.Int("active_clients", remaining))
		}
	}
}
