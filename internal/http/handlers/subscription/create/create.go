// Package create реализует HTTP-обработчик для создания новых подписок пользователя.
//
// Handler принимает JSON-запрос с данными подписки, валидирует их, извлекает uid
// пользователя из контекста, вызывает бизнес-логику создания подписки через сервис
// и возвращает созданную запись вместе с идентификатором напоминания.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Handler управляет HTTP-запросами на создание новых подписок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, string, error)
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
// @Summary Создать новую подписку
// @Description Создает новую подписку для текущего пользователя и ставит напоминание в очередь.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscription true "Данные новой подписки"
// @Success 201 {object} map[string]any "Созданная подписка и идентификатор напоминания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании подписки"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	sub, reminderID, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("success to create subscription", slog.Int("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
		"is_cancelled": sub.IsCancelled(),
		"reminder_id":  reminderID,
	}))
}
