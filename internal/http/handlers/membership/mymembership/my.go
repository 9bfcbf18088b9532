// Package mymembership реализует HTTP-обработчик чтения текущего членства пользователя.
package mymembership

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// Service описывает интерфейс чтения живого членства.
type Service interface {
	My(ctx context.Context, user *models.User) (*models.Membership, error)
}

// Handler отдает pending- или active-членство пользователя, либо null.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.my"
	log := h.log.With(slog.String("op", op))

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	m, err := h.service.My(r.Context(), user)
	if err != nil {
		log.Error("failed to read membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	// Отсутствие членства — не ошибка, отдается membership: null.
	render.JSON(w, r, response.OKWithData(map[string]any{
		"membership": m,
	}))
}
