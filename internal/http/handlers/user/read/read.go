// Package read реализует HTTP-обработчик для получения учётной записи по uid.
//
// Доступ разрешён только самому пользователю: uid из пути сравнивается
// с uid вызывающего из контекста. Хэш пароля в ответ не попадает.
package read

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
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы на получение учётной записи пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики работы с пользователями
}

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.UserInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя
// @Description Возвращает учётную запись по uid. Доступно только самому пользователю.
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Запрошена чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

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

	user, err := h.service.Get(r.Context(), targetUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("user not found", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	log.Info("success to read user", slog.String("uid", targetUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
