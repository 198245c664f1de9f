package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SecurityHeaders applies a set of recommended HTTP security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// Logging tags each request with a short id and logs method, path,
// remote address, and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()[:8]
		w.Header().Set("X-Request-Id", reqID)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s from %s – %v", reqID, r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}
