package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/subscription-tracker/internal/app/remindersender"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting reminder-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := remindersender.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize reminder-sender app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("reminder-sender app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("reminder-sender stopped gracefully")
}
