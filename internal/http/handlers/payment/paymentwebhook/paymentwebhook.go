// Package paymentwebhook реализует HTTP-обработчик вебхуков платёжного шлюза.
//
// Обработчик сначала проверяет подпись HMAC-SHA256 сырого тела запроса и
// только потом разбирает событие. Неизвестные события и события по
// неизвестным подпискам подтверждаются без записи, чтобы шлюз не повторял
// доставку бесконечно.
package paymentwebhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-fund/internal/http/response"
	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/services/payment"
)

// SignatureHeader содержит подпись тела вебхука, проставленную шлюзом.
const SignatureHeader = "X-Provider-Signature"

// Service описывает интерфейс обработки событий вебхука.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, event *payment.WebhookEvent) error
}

// Verifier проверяет подпись сырого тела вебхука.
type Verifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// Handler управляет HTTP-запросами вебхуков от платёжного шлюза.
type Handler struct {
	log      *slog.Logger
	service  Service
	verifier Verifier
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, verifier Verifier) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		verifier: verifier,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if signature == "" || !h.verifier.VerifyWebhookSignature(body, signature) {
		log.Error("webhook signature verification failed")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid webhook signature"))
		return
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		log.Error("failed to parse webhook event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid webhook payload"))
		return
	}

	if err := h.service.ProcessWebhookEvent(r.Context(), event); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process event"))
		return
	}

	log.Info("webhook processed", slog.String("event", event.Event))
	render.JSON(w, r, response.OK())
}
