// Package cancel реализует HTTP-обработчик отмены активного членства.
//
// Отменяется только членство в статусе active; членство в статусе pending
// отменить нельзя.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// Service описывает интерфейс бизнес-логики отмены членства.
type Service interface {
	Cancel(ctx context.Context, user *models.User) error
}

// Handler управляет HTTP-запросами на отмену членства.
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
	const op = "handlers.membership.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Cancel(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrNoActiveMembership) {
			log.Error("no active membership", slog.String("user_id", user.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active membership found"))
			return
		}
		log.Error("failed to cancel membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to cancel membership"))
		return
	}

	log.Info("membership cancelled", slog.String("user_id", user.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "membership cancelled successfully",
	}))
}
