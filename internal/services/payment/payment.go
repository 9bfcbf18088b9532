// Package payment содержит историю платежей пользователя и обработку
// webhook-уведомлений платёжного шлюза.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-fund/internal/lib/sl"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// historyLimit ограничивает размер ответа истории платежей.
const historyLimit = 100

// EventSubscriptionCharged — единственное событие шлюза, приводящее к записи платежа.
const EventSubscriptionCharged = "subscription.charged"

// Repository определяет методы хранилища, нужные платёжному сервису.
type Repository interface {
	// ListUserTransactions возвращает платежи пользователя, новые первыми.
	ListUserTransactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
	// FindMembershipBySubscriptionID ищет членство по внешнему идентификатору подписки.
	FindMembershipBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Membership, error)
	// CreateTransaction вставляет запись о платеже.
	CreateTransaction(ctx context.Context, trx models.Transaction) (*models.Transaction, error)
}

// Service реализует историю платежей и приём webhook-событий.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// History возвращает платежи пользователя, новые первыми, не более 100 записей.
func (s *Service) History(ctx context.Context, user *models.User) ([]*models.Transaction, error) {
	return s.repo.ListUserTransactions(ctx, user.ID, historyLimit)
}

// WebhookEvent — конверт уведомления платёжного шлюза.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

// WebhookPayload повторяет вложенную структуру уведомления шлюза:
// сущности подписки и платежа завернуты в поле entity.
type WebhookPayload struct {
	Subscription struct {
		Entity struct {
			ID string `json:"id"`
		} `json:"entity"`
	} `json:"subscription"`
	Payment struct {
		Entity struct {
			ID     string `json:"id"`
			Amount int64  `json:"amount"` // Сумма в минорных единицах валюты
		} `json:"entity"`
	} `json:"payment"`
}

// ParseWebhookEvent разбирает тело уведомления.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ProcessWebhookEvent обрабатывает уведомление шлюза. Реакция есть только
// на событие subscription.charged; остальные события принимаются и
// игнорируются, чтобы шлюз с at-least-once доставкой не получал ошибок.
// Уведомление о неизвестной подписке молча отбрасывается: повторов и
// ошибок наружу webhook не предполагает.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	const op = "payment.ProcessWebhookEvent"
	log := s.log.With(slog.String("op", op), slog.String("event", event.Event))

	if event.Event != EventSubscriptionCharged {
		log.Info("ignored webhook event")
		return nil
	}

	subscriptionID := event.Payload.Subscription.Entity.ID
	membership, err := s.repo.FindMembershipBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, storage.ErrMembershipNotFound) {
			log.Info("webhook for unknown subscription dropped",
				slog.String("subscription_id", subscriptionID))
			return nil
		}
		return err
	}

	var paymentID *string
	if id := event.Payload.Payment.Entity.ID; id != "" {
		paymentID = &id
	}
	trx := models.Transaction{
		ID:                uuid.New().String(),
		UserID:            membership.UserID,
		MembershipID:      membership.ID,
		ProviderPaymentID: paymentID,
		// Конвертация из минорных единиц шлюза в основные, с усечением.
		Amount:        event.Payload.Payment.Entity.Amount / 100,
		PaymentStatus: models.PaymentStatusSuccess,
	}
	if _, err := s.repo.CreateTransaction(ctx, trx); err != nil {
		log.Error("failed to record webhook payment", sl.Err(err))
		return err
	}

	log.Info("recurring payment recorded",
		slog.String("membership_id", membership.ID),
		slog.Int64("amount", trx.Amount))
	return nil
}
