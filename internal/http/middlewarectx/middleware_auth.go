// Package middlewarectx содержит HTTP middleware для разрешения сессии
// и авторизации запросов.
//
// SessionMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization, перечитывает пользователя из базы и кладет его в контекст
// запроса. Роль из токена не берется никогда: только из свежей записи.
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

	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// CurrentUser — ключ для текущего пользователя в контексте.
const CurrentUser Key = "current_user"

// SessionResolver описывает интерфейс сервиса для разрешения токена сессии.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext достает текущего пользователя из контекста запроса.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUser).(*models.User)
	return user, ok && user != nil
}

// SessionMiddleware возвращает HTTP middleware, который проверяет JWT
// в заголовке Authorization и кладет разрешенного пользователя в контекст.
//
// Если токен отсутствует, просрочен или пользователь удален,
// возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(resolver SessionResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
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

			user, err := resolver.ResolveSession(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
