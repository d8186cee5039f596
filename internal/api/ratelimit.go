package api

import (
	"log/slog"
	"net/http"

	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/ratelimit"
)

// RateLimitMiddleware rate limits requests per client IP and answers 429
// when the limit is exceeded. A nil limiter disables limiting.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				writeAPIError(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
