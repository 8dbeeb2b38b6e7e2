// Package list реализует HTTP-обработчик для получения списка всех пользователей.
//
// Операция административная: доступна только роли admin, остальным — 403.
// Хэши паролей в ответ не попадают.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Handler обрабатывает запросы на получение списка пользователей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики работы с пользователями
}

// Service описывает интерфейс бизнес-логики получения списка пользователей.
type Service interface {
	List(ctx context.Context) ([]models.UserInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список всех пользователей
// @Description Возвращает всех пользователей без учётных данных. Только для роли admin.
// @Tags Users
// @Produce  json
// @Success 200 {object} map[string]any "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	if role != models.RoleAdmin {
		log.Error("listing users requires admin role", slog.String("role", role))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role required"))
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	log.Info("success to list users", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": users,
	}))
}
