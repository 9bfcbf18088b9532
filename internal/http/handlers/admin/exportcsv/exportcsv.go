// Package exportcsv реализует HTTP-обработчик выгрузки участников в CSV.
package exportcsv

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
)

// Service описывает интерфейс формирования CSV-выгрузки.
type Service interface {
	ExportMembersCSV(ctx context.Context) ([]byte, error)
}

// Handler отдает CSV-файл со всеми участниками фонда.
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
	const op = "handlers.admin.exportcsv"
	log := h.log.With(slog.String("op", op))

	data, err := h.service.ExportMembersCSV(r.Context())
	if err != nil {
		log.Error("failed to export members", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members_export.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write csv response", sl.Err(err))
	}
}
