// Package transactions реализует HTTP-обработчик полного списка платежей для администратора.
package transactions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// Service описывает интерфейс чтения всех платежей фонда.
type Service interface {
	Transactions(ctx context.Context) ([]*models.TransactionInfo, error)
}

// Handler отдает все платежи фонда с данными плательщиков.
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
	const op = "handlers.admin.transactions"
	log := h.log.With(slog.String("op", op))

	txs, err := h.service.Transactions(r.Context())
	if err != nil {
		log.Error("failed to list transactions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"transactions": txs,
		"count":        len(txs),
	}))
}
