package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRequestBodyLimitBytes caps request payload size.
	DefaultRequestBodyLimitBytes int64 = MaxReportPayloadBytes

	// DefaultRateLimitRequests is the default request budget per client IP and window.
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the default throttle window.
	DefaultRateLimitWindow = time.Minute
)

const (
	securityHeaderNoSniff = "nosniff"
	securityHeaderNoFrame = "DENY"
	securityHeaderHSTS    = "max-age=63072000; includeSubDomains"
	securityHeaderCSP     = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"
)

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

type ipWindow struct {
	start time.Time
	count int
}

type ipRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]ipWindow
}

func newIPRateLimiter(limit int, window time.Duration, now func() time.Time) *ipRateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimitRequests
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if now == nil {
		now = time.Now
	}

	return &ipRateLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		windows: make(map[string]ipWindow),
	}
}

// allow reports whether clientIP may make another request, and how long
// until its window resets when it may not.
func (l *ipRateLimiter) allow(clientIP string) (bool, time.Duration) {
	now := l.now()
	if clientIP == "" {
		clientIP = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop stale IP windows.
	for ip, window := range l.windows {
		if now.Sub(window.start) >= 2*l.window {
			delete(l.windows, ip)
		}
	}

	window := l.windows[clientIP]
	if window.start.IsZero() || now.Sub(window.start) >= l.window {
		l.windows[clientIP] = ipWindow{start: now, count: 1}
		return true, 0
	}

	if window.count >= l.limit {
		return false, l.window - now.Sub(window.start)
	}

	window.count++
	l.windows[clientIP] = window
	return true, 0
}

// SecurityHeaders ensures API responses include baseline browser hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", securityHeaderNoSniff)
		w.Header().Set("X-Frame-Options", securityHeaderNoFrame)
		w.Header().Set("Strict-Transport-Security", securityHeaderHSTS)
		w.Header().Set("Content-Security-Policy", securityHeaderCSP)
		next.ServeHTTP(w, r)
	})
}

// BodySizeLimit caps request body size before handler processing. Requests
// that declare a larger Content-Length are refused without reading the body.
func BodySizeLimit(limitBytes int64) func(http.Handler) http.Handler {
	if limitBytes <= 0 {
		limitBytes = DefaultRequestBodyLimitBytes
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limitBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitPerIP throttles requests by client IP.
func RateLimitPerIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return rateLimitPerIPWithClock(limit, window, time.Now)
}

func rateLimitPerIPWithClock(limit int, window time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(limit, window, now)

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := limiter.allow(clientIPFromRequest(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfterSeconds := int(retryAfter.Round(time.Second).Seconds())
			if retryAfterSeconds <= 0 {
				retryAfterSeconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		})
	}
}

func clientIPFromRequest(r *http.Request) string {
	forwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	remoteAddr := strings.TrimSpace(r.RemoteAddr)
	if remoteAddr == "" {
		return "unknown"
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err == nil && host != "" {
		return host
	}

	return remoteAddr
}
