// Package middlewarectx содержит HTTP middleware для проверки JWT токенов,
// ограничения частоты запросов и сбора метрик.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
// и в случае успеха добавляет в контекст имя пользователя, роль и uid
// для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для уникального идентификатора пользователя в контексте
	UserUID Key = "user_uid"
)

// TokenValidator описывает интерфейс сервиса для валидации JWT токена.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет имя пользователя, роль и uid в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := validator.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
