// Package remove реализует HTTP-обработчик для удаления подписки по ID.
//
// Чужая подписка неотличима от отсутствующей: в обоих случаях 404.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы на удаление подписки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для удаления подписки
}

// Service описывает интерфейс бизнес-логики удаления подписки.
type Service interface {
	Remove(ctx context.Context, id int, userUID string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить подписку
// @Description Удаляет подписку текущего пользователя по её идентификатору.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} map[string]any "Подтверждение удаления"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), id, userUID); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Info("subscription not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		log.Error("failed to remove subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove subscription"))
		return
	}

	log.Info("success to remove subscription", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "subscription deleted successfully",
	}))
}
