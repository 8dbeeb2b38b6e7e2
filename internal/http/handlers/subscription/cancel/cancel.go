// Package cancel реализует HTTP-обработчик отмены подписки.
//
// Отмена — необратимый переход: повторная попытка возвращает 409,
// поля записи при этом не меняются. Чужая подписка неотличима
// от отсутствующей: в обоих случаях 404.
package cancel

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
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы на отмену подписки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для отмены подписки
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, id int, userUID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Переводит подписку текущего пользователя в статус cancelled. Повторная отмена невозможна.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} map[string]any "Отменённая подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 409 {object} response.ErrorResponse "Подписка уже отменена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/cancel [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

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

	sub, err := h.service.Cancel(r.Context(), id, userUID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSubscriptionNotFound):
			log.Info("subscription not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		case errors.Is(err, repository.ErrAlreadyCancelled):
			log.Info("subscription is already cancelled", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("subscription is already cancelled"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel subscription"))
		}
		return
	}

	log.Info("success to cancel subscription", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
		"is_cancelled": sub.IsCancelled(),
		"message":      "subscription cancelled successfully",
	}))
}
