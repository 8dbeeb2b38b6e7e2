// Package update реализует HTTP-обработчик для обновления подписки по ID.
//
// Обновляются только сервис, цена и дата продления: владелец и статус
// из запроса не принимаются. Чужая подписка неотличима от отсутствующей.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы на обновление подписки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для обновления подписки
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления подписки.
type Service interface {
	Update(ctx context.Context, req models.DummySubscription, id int, userUID string) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить подписку
// @Description Перезаписывает сервис, цену и дату продления подписки текущего пользователя.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID подписки"
// @Param request body models.DummySubscription true "Новые данные подписки"
// @Success 200 {object} map[string]any "Обновлённая подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"

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

	var req models.DummySubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Update(r.Context(), req, id, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Info("subscription not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		log.Error("failed to update subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update subscription"))
		return
	}

	log.Info("success to update subscription", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
		"message":      "subscription updated successfully",
	}))
}
