package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
)

// RateLimitMiddleware ограничивает частоту запросов общим лимитером.
func RateLimitMiddleware(log *slog.Logger, limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
