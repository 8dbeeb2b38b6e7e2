// Package register реализует HTTP-обработчик для регистрации нового пользователя.
package register

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

// Handler обрабатывает запросы регистрации пользователя.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики аутентификации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, username, password string) (string, error)
}

// Request содержит данные для регистрации нового пользователя.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
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
// @Summary Регистрация пользователя
// @Description Создает нового пользователя с ролью user и возвращает его UID
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные для регистрации"
// @Success 201 {object} map[string]any "UID созданного пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	uid, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("success to register user", slog.String("uid", uid))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":     uid,
		"message": "user registered successfully",
	}))
}
