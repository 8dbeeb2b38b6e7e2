// Package subscriptiontracker предоставляет маршруты для основного приложения.
package subscriptiontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/listbyuser"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/upcoming"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	userlist "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	userService *userservice.UserService,
	subscriptionService *subservice.SubscriptionService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	limiter := rate.NewLimiter(rate.Limit(10), 20)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/upcoming", upcoming.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/user/{uid}", listbyuser.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}/cancel", cancel.New(logger, subscriptionService).ServeHTTP)

			r.Get("/users", userlist.New(logger, userService).ServeHTTP)
			r.Get("/users/{uid}", userread.New(logger, userService).ServeHTTP)
			r.Put("/users/{uid}", userupdate.New(logger, userService).ServeHTTP)
			r.Delete("/users/{uid}", userremove.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.Get("/health", health.New(logger).ServeHTTP)
}
