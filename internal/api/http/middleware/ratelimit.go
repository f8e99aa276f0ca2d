package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/scholarly/auth-server/internal/apierrors"
	"github.com/scholarly/auth-server/internal/logger"
	"github.com/scholarly/auth-server/internal/ratelimit"
)

// RateLimit admits or rejects requests per client IP using a token
// bucket limiter.
type RateLimit struct {
	limiter *ratelimit.Limiter
	logger  *logger.Logger
}

// NewRateLimit creates a new RateLimit middleware instance.
func NewRateLimit(limiter *ratelimit.Limiter, logger *logger.Logger) *RateLimit {
	return &RateLimit{limiter: limiter, logger: logger}
}

// Handle checks the client's bucket before passing the request on.
// Rejected requests get 429 with Retry-After. A limiter backend error
// degrades to 503 rather than waving the request through.
func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		decision, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			m.logger.Error("RateLimit middleware: admission check failed",
				"client", key,
				"error", err.Error())
			writeError(w, apierrors.NewErrDependencyUnavailable())
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.Capacity()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(decision.Remaining)))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			m.logger.Info("RateLimit middleware: request rejected",
				"client", key,
				"path", r.URL.Path,
				"retry_after_s", retryAfter)
			writeError(w, apierrors.NewErrRateLimited())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the client address. Proxy headers take precedence
// over the socket peer so limits follow the real caller behind a load
// balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		if ip := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0]); ip != "" {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
