// Package members реализует HTTP-обработчик списка участников фонда для администратора.
package members

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// Service описывает интерфейс чтения списка участников.
type Service interface {
	Members(ctx context.Context) ([]*models.MemberInfo, error)
}

// Handler отдает всех участников с их последним членством.
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
	const op = "handlers.admin.members"
	log := h.log.With(slog.String("op", op))

	members, err := h.service.Members(r.Context())
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"members": members,
		"count":   len(members),
	}))
}
