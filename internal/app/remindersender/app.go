// Package remindersender собирает и запускает воркер рассылки напоминаний:
// подключение к RabbitMQ, потребление очереди и отправка писем по SMTP.
package remindersender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-tracker/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/subscription-tracker/internal/services/sender"
)

// App объединяет соединение с брокером и сервис отправки напоминаний.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ, объявляет очереди и готовит сервис отправки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди напоминаний и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "reminders.upcoming", a.senderService.SendRenewalReminder)
	if err != nil {
		a.logger.Error("failed to start reminders.upcoming consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("reminder-sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
