package httpx

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginLimiterIdle is how long an unused per-client bucket is kept.
const loginLimiterIdle = 10 * time.Minute

// LoginLimiterConfig bounds credential attempts per client IP.
type LoginLimiterConfig struct {
	PerMinute int
	Burst     int
	// OnLimited runs once per rejected request, e.g. a metrics counter.
	OnLimited func()
	Now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter is a token bucket per client IP.
type LoginLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	onLimited func()
	now       func() time.Time
	lastSweep time.Time
}

// NewLoginLimiter builds a limiter; non-positive settings are raised to one.
func NewLoginLimiter(cfg LoginLimiterConfig) *LoginLimiter {
	perMinute := max(cfg.PerMinute, 1)
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &LoginLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     max(cfg.Burst, 1),
		onLimited: cfg.OnLimited,
		now:       now,
		lastSweep: now(),
	}
}

// Allow reports whether key may attempt another login now.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > loginLimiterIdle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > loginLimiterIdle {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects over-limit requests by calling limited instead of next.
func (l *LoginLimiter) Middleware(limited http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.Allow(clientIP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			if l.onLimited != nil {
				l.onLimited()
			}
			w.Header().Set("Retry-After", "60")
			limited(w, r)
		})
	}
}

// LoginThrottled re-renders the login form with a 429.
func (h *UIHandlers) LoginThrottled(w http.ResponseWriter, r *http.Request) {
	h.logger().WarnContext(r.Context(), "login throttled", "client", clientIP(r))
	h.renderLogin(w, r, http.StatusTooManyRequests, loginView{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Error:       "Too many sign-in attempts. Please wait a minute and try again.",
		RedirectURI: loginRedirect(r.PostFormValue("redirect_uri")),
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
