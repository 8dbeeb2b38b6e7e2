package cancel

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

// MockService реализует интерфейс cancel.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Cancel(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCancelHandler(t *testing.T) {
	cancelledAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	cancelled := &models.Subscription{
		ID:          5,
		UserUID:     "uid-1",
		ServiceName: "Netflix",
		Price:       500,
		Status:      models.StatusCancelled,
		CancelledAt: &cancelledAt,
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
			name:    "успешная отмена подписки",
			urlID:   "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, 5, "uid-1").Return(cancelled, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_cancelled":true`,
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
			name:           "нет uid в контексте",
			urlID:          "5",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "подписка не найдена",
			urlID:   "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, 5, "uid-1").
					Return(nil, repository.ErrSubscriptionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name:    "повторная отмена",
			urlID:   "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, 5, "uid-1").
					Return(nil, repository.ErrAlreadyCancelled)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"subscription is already cancelled"`,
		},
		{
			name:    "ошибка сервиса",
			urlID:   "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, 5, "uid-1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not cancel subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+tt.urlID+"/cancel", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
