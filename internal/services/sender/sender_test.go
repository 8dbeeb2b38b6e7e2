package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

type MockWriteCloser struct {
	mock.Mock
	written []byte
}

func (m *MockWriteCloser) Write(p []byte) (int, error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return len(p), args.Error(1)
}

func (m *MockWriteCloser) Close() error {
	return m.Called().Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validReminderBody(t *testing.T) []byte {
	t.Helper()
	reminder := models.Reminder{
		ReminderID:     "rem-1",
		SubscriptionID: 42,
		ServiceName:    "Netflix",
		RenewalDate:    time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Email:          "user@example.com",
		Username:       "testuser",
	}
	body, err := json.Marshal(reminder)
	require.NoError(t, err)
	return body
}

func TestSendRenewalReminder_Success(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := new(MockWriteCloser)

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@example.com").Return(nil).Once()
	client.On("Rcpt", "user@example.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	writer.On("Write", mock.Anything).Return(0, nil)
	writer.On("Close").Return(nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := NewSenderService(transport, newNoopLogger())
	err := svc.SendRenewalReminder(validReminderBody(t))

	require.NoError(t, err)
	assert.Contains(t, string(writer.written), "Netflix")
	assert.Contains(t, string(writer.written), "15.10.2026")
	assert.Contains(t, string(writer.written), "testuser")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendRenewalReminder_InvalidBody(t *testing.T) {
	transport := new(MockTransport)

	svc := NewSenderService(transport, newNoopLogger())
	err := svc.SendRenewalReminder([]byte("not-json"))

	assert.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendRenewalReminder_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(nil, errors.New("connection refused")).Once()

	svc := NewSenderService(transport, newNoopLogger())
	err := svc.SendRenewalReminder(validReminderBody(t))

	assert.Error(t, err)
}

func TestSendRenewalReminder_RcptError(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@example.com").Return(nil).Once()
	client.On("Rcpt", "user@example.com").Return(errors.New("mailbox unavailable")).Once()
	client.On("Close").Return(nil).Once()

	svc := NewSenderService(transport, newNoopLogger())
	err := svc.SendRenewalReminder(validReminderBody(t))

	assert.Error(t, err)
	client.AssertNotCalled(t, "Data")
}
