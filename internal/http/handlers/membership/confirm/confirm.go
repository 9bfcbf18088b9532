// Package confirm реализует HTTP-обработчик подтверждения оплаты членства.
//
// Активация pending-членства и запись учредительного платежа выполняются
// одной транзакцией хранилища: активное членство без платежа наблюдаться не может.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-fund/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// Service описывает интерфейс бизнес-логики подтверждения членства.
type Service interface {
	Confirm(ctx context.Context, user *models.User, req models.ConfirmMembershipRequest) error
}

// Handler управляет HTTP-запросами на подтверждение членства.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ConfirmMembershipRequest
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

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Confirm(r.Context(), user, req); err != nil {
		if errors.Is(err, storage.ErrNoPendingMembership) {
			log.Error("no pending membership", slog.String("user_id", user.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no pending membership found"))
			return
		}
		log.Error("failed to confirm membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm membership"))
		return
	}

	log.Info("membership confirmed", slog.String("user_id", user.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "membership activated successfully",
	}))
}
