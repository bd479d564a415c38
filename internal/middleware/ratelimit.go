package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitGenerate limits image generation per client IP. Each call hits the
// paid provider. Clients are keyed by the connection address unless trustProxy
// is set, in which case True-Client-IP, X-Real-IP and X-Forwarded-For win.
func RateLimitGenerate(limit int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	keyFunc := httprate.KeyByIP
	if trustProxy {
		keyFunc = httprate.KeyByRealIP
	}

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded", "path", r.URL.Path, "remote_addr", r.RemoteAddr)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Too many requests. Please try again later.",
			})
		}),
	)
}
