package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/schoolplanner/backend/internal/api"
	"github.com/schoolplanner/backend/internal/ratelimit"
)

// RateLimit gates an endpoint with the given limiter, keyed by source IP.
// A failing limiter backend lets the request through; throttling is best
// effort and must never take the endpoint down with it.
func RateLimit(l ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Printf("rate limiter: %v", err)
			} else if !ok {
				seconds := int(l.Window() / time.Second)
				api.Error(w, http.StatusTooManyRequests, "rate_limit_exceeded",
					fmt.Sprintf("You can only call this endpoint every %d seconds", seconds))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. Behind chi's RealIP middleware
// RemoteAddr may already be a bare IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
