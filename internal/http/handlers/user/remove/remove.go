// Package remove реализует HTTP-обработчик для удаления учётной записи по uid.
// Вместе с учётной записью каскадно удаляются все её подписки.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы на удаление учётной записи.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики работы с пользователями
}

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	Remove(ctx context.Context, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет учётную запись и все её подписки. Доступно только самому пользователю.
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь удалён"
// @Failure 401 {object} response.ErrorResponse "Запрошена чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	targetUID := chi.URLParam(r, "uid")
	if targetUID != callerUID {
		log.Error("caller is not the owner of requested account",
			slog.String("target_uid", targetUID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("you are not the owner of this account"))
		return
	}

	if err := h.service.Remove(r.Context(), targetUID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("user not found", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to remove user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove user"))
		return
	}

	log.Info("success to remove user", slog.String("uid", targetUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user successfully deleted",
	}))
}
