// Package subscriptiontracker собирает и запускает основное HTTP-приложение:
// хранилище, миграции, кэш, очередь напоминаний, сервисы и маршруты.
package subscriptiontracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-tracker/internal/cache"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	"github.com/magabrotheeeer/subscription-tracker/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// App объединяет HTTP-сервер и его зависимости.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbit     *rabbitmq.Publisher
	rabbitConn *amqp.Connection
}

// New инициализирует все зависимости приложения и возвращает готовый App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	userService := userservice.NewUserService(db, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, userService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbit:     publisher,
		rabbitConn: conn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if closeErr := a.rabbit.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if closeErr := a.rabbitConn.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	}
}
