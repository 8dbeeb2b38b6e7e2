package listbyuser

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// MockService реализует интерфейс listbyuser.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestListByUserHandler(t *testing.T) {
	subs := []*models.Subscription{
		{ID: 1, UserUID: "uid-1", ServiceName: "Netflix", Status: models.StatusActive},
	}

	tests := []struct {
		name           string
		targetUID      string
		callerUID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешный список своих подписок",
			targetUID: "uid-1",
			callerUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "uid-1").Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"service_name":"Netflix"`,
		},
		{
			name:           "чужой uid отклоняется",
			targetUID:      "uid-2",
			callerUID:      "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"you are not the owner of this account"`,
		},
		{
			name:           "нет uid в контексте",
			targetUID:      "uid-1",
			callerUID:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscriptions/user/"+tt.targetUID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.targetUID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.callerUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.callerUID)
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
