// Package login реализует HTTP-обработчик для входа пользователя и выдачи JWT.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

// Handler обрабатывает запросы входа пользователя.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики аутентификации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, username, password string) (token, role string, err error)
}

// Request содержит учётные данные для входа.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
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
// @Summary Вход пользователя
// @Description Проверяет учётные данные и возвращает JWT токен
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} map[string]any "Токен и роль пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	token, role, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Error("failed to login user", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid username or password"))
		return
	}

	log.Info("success to login user", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"role":  role,
	}))
}
