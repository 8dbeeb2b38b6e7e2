// Package update реализует HTTP-обработчик для обновления учётной записи по uid.
//
// Доступ разрешён только самому пользователю. Обновляются email и username;
// пароль — только если передан, с повторным хэшированием.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

// Handler обрабатывает запросы на обновление учётной записи.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики работы с пользователями
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления пользователя.
type Service interface {
	Update(ctx context.Context, userUID string, req models.DummyUserUpdate) (*models.UserInfo, error)
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
// @Summary Обновить пользователя
// @Description Перезаписывает email и username учётной записи. Доступно только самому пользователю.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body models.DummyUserUpdate true "Новые данные учётной записи"
// @Success 200 {object} map[string]any "Обновлённый пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Запрошена чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

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

	var req models.DummyUserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Update(r.Context(), targetUID, req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("user not found", slog.String("uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user"))
		return
	}

	log.Info("success to update user", slog.String("uid", targetUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":    user,
		"message": "user updated successfully",
	}))
}
