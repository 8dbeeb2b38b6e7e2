// Package read реализует HTTP-обработчик для получения конкретной подписки по ID.
//
// Handler извлекает ID из URL-параметров и uid пользователя из контекста,
// вызывает бизнес-логику чтения и возвращает данные подписки в JSON-формате.
// Чужая подписка неотличима от отсутствующей: в обоих случаях 404.
package read

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

// Handler обрабатывает запросы на получение подписки по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения подписки по ID
}

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	Read(ctx context.Context, id int, userUID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить подписку по ID
// @Description Возвращает подписку текущего пользователя по её идентификатору.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} map[string]any "Данные подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"

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

	sub, err := h.service.Read(r.Context(), id, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Info("subscription not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		log.Error("failed to read subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	log.Info("success to read subscription", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
		"is_cancelled": sub.IsCancelled(),
	}))
}
