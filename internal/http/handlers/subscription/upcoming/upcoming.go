// Package upcoming реализует HTTP-обработчик для получения активных подписок
// текущего пользователя, продлевающихся в ближайшие 7 дней.
//
// Результат отсортирован по дате продления по возрастанию, отменённые
// подписки не учитываются.
package upcoming

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

// Handler обрабатывает запросы на получение предстоящих продлений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики предстоящих продлений
}

// Service описывает интерфейс бизнес-логики предстоящих продлений.
type Service interface {
	UpcomingRenewals(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Предстоящие продления
// @Description Возвращает активные подписки пользователя с датой продления в ближайшие 7 дней.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Список продлений и их количество"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/upcoming [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upcoming"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subs, err := h.service.UpcomingRenewals(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list upcoming renewals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list upcoming renewals"))
		return
	}

	log.Info("success to list upcoming renewals", slog.Int("count", len(subs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":         len(subs),
		"subscriptions": subs,
	}))
}
