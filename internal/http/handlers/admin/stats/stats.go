// Package stats реализует HTTP-обработчик сводной статистики фонда для администратора.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// Service описывает интерфейс чтения агрегированной статистики.
type Service interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// Handler отдает агрегированные показатели фонда.
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

// ServeHTTP godoc
// @Summary Статистика фонда
// @Description Возвращает количество участников и суммарные показатели сборов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} models.AdminStats "Агрегированные показатели"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения статистики"
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"
	log := h.log.With(slog.String("op", op))

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to read stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(stats))
}
