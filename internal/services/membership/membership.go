// Package membership реализует жизненный цикл членства:
// pending -> active -> cancelled. Активировать членство можно только
// из pending, отменить — только из active; из cancelled переходов нет,
// после отмены пользователь может начать новое членство.
package membership

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// Repository определяет методы для работы с членствами в хранилище.
type Repository interface {
	// CreateMembership вставляет членство в статусе pending или возвращает
	// storage.ErrDuplicateMembership.
	CreateMembership(ctx context.Context, m models.Membership) (*models.Membership, error)
	// FindLiveMembership возвращает членство в статусе pending или active, либо (nil, nil).
	FindLiveMembership(ctx context.Context, userID string) (*models.Membership, error)
	// ConfirmMembership атомарно активирует pending-членство и записывает учредительный платёж.
	ConfirmMembership(ctx context.Context, userID, subscriptionID string, paymentID *string, transactionID string) (*models.Transaction, error)
	// CancelMembership отменяет active-членство и возвращает дату окончания.
	CancelMembership(ctx context.Context, userID string) (time.Time, error)
}

// Service реализует бизнес-логику членства.
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

// Create начинает новое членство в статусе pending. Сумма плана приходит
// от клиента и не сверяется с каталогом: каталога планов в системе нет.
// Уникальный индекс в хранилище исключает второе живое членство даже при
// конкурентных запросах.
func (s *Service) Create(ctx context.Context, user *models.User, req models.CreateMembershipRequest) (*models.Membership, error) {
	m := models.Membership{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		PlanName:   req.PlanName,
		PlanAmount: req.PlanAmount,
	}
	created, err := s.repo.CreateMembership(ctx, m)
	if err != nil {
		return nil, err
	}
	s.log.Info("membership created",
		slog.String("membership_id", created.ID),
		slog.String("user_id", user.ID),
		slog.String("plan", created.PlanName))
	return created, nil
}

// Confirm активирует pending-членство пользователя после оплаты,
// записывая внешний идентификатор подписки и учредительный платёж
// одной транзакцией хранилища.
func (s *Service) Confirm(ctx context.Context, user *models.User, req models.ConfirmMembershipRequest) error {
	var paymentID *string
	if req.PaymentID != "" {
		paymentID = &req.PaymentID
	}
	trx, err := s.repo.ConfirmMembership(ctx, user.ID, req.SubscriptionID, paymentID, uuid.New().String())
	if err != nil {
		return err
	}
	s.log.Info("membership activated",
		slog.String("user_id", user.ID),
		slog.String("membership_id", trx.MembershipID),
		slog.Int64("amount", trx.Amount))
	return nil
}

// My возвращает живое членство пользователя. Отсутствие членства — не
// ошибка: возвращается (nil, nil), обработчик отдает membership: null.
func (s *Service) My(ctx context.Context, user *models.User) (*models.Membership, error) {
	return s.repo.FindLiveMembership(ctx, user.ID)
}

// Cancel отменяет активное членство пользователя. Членство в статусе
// pending отменить нельзя.
func (s *Service) Cancel(ctx context.Context, user *models.User) error {
	endDate, err := s.repo.CancelMembership(ctx, user.ID)
	if err != nil {
		return err
	}
	s.log.Info("membership cancelled",
		slog.String("user_id", user.ID),
		slog.Time("end_date", endDate))
	return nil
}
