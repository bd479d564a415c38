package middleware

import (
	"fmt"
	"net/http"
)

// SecurityHeaders sets CSP and related headers. Inline scripts and styles are
// allowed only when they carry the request nonce. Images may come from any
// https origin because provider and bucket URLs vary.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", contentSecurityPolicy(GetNonce(r.Context())))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(nonce string) string {
	script := "'self'"
	style := "'self'"
	if nonce != "" {
		script = fmt.Sprintf("'self' 'nonce-%s'", nonce)
		style = fmt.Sprintf("'self' 'nonce-%s'", nonce)
	}

	return "default-src 'self'; " +
		"img-src 'self' https: data:; " +
		"script-src " + script + "; " +
		"style-src " + style + "; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"
}
