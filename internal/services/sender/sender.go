// Package services содержит отправку писем-напоминаний о предстоящем
// продлении подписки. Сообщения приходят из очереди напоминаний
// и доставляются по SMTP.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// SenderService отправляет письма-напоминания через SMTP-транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendRenewalReminder разбирает сообщение напоминания и отправляет письмо
// владельцу подписки.
func (s *SenderService) SendRenewalReminder(body []byte) error {
	var reminder models.Reminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{reminder.Email}
	subject := "Напоминание о продлении подписки"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на сервис %s продлевается %s.\n\nЕсли продление не нужно, отмените подписку заранее.",
		reminder.Username, reminder.ServiceName, reminder.RenewalDate.Format("02.01.2006"))

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("reminder email sent", slog.Any("to", to))
	return nil
}
