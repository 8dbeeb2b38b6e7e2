package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReadHandler(t *testing.T) {
	sub := &models.Subscription{
		ID:          123,
		UserUID:     "uid-1",
		ServiceName: "Netflix",
		Price:       500,
		RenewalDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusActive,
	}

	tests := []struct {
		name           string
		urlID          string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное чтение подписки",
			urlID:   "123",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 123, "uid-1").Return(sub, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"service_name":"Netflix"`,
		},
		{
			name:           "некорректный id в URL",
			urlID:          "abc",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode id from url"`,
		},
		{
			name:    "чужая подписка неотличима от отсутствующей",
			urlID:   "123",
			userUID: "uid-2",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 123, "uid-2").
					Return(nil, repository.ErrSubscriptionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name:    "ошибка сервиса",
			urlID:   "777",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 777, "uid-1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+tt.urlID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
