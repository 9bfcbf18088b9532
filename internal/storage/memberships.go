package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// CreateMembership вставляет новое членство в статусе pending.
// Частичный уникальный индекс по user_id гарантирует не более одного
// членства в статусе pending или active на пользователя; нарушение
// индекса транслируется в ErrDuplicateMembership.
func (s *Storage) CreateMembership(ctx context.Context, m models.Membership) (*models.Membership, error) {
	const op = "storage.CreateMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO memberships (id, user_id, plan_name, plan_amount, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING start_date`
	if err := s.DB.QueryRowContext(ctx, query,
		m.ID, m.UserID, m.PlanName, m.PlanAmount,
		models.MembershipStatusPending).Scan(&m.StartDate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateMembership)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.Status = models.MembershipStatusPending
	return &m, nil
}

// FindLiveMembership возвращает членство пользователя в статусе pending или active.
// Отсутствие такой записи — не ошибка, возвращается (nil, nil).
func (s *Storage) FindLiveMembership(ctx context.Context, userID string) (*models.Membership, error) {
	const op = "storage.FindLiveMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_name, plan_amount, provider_subscription_id,
			      start_date, end_date, status
			  FROM memberships
			  WHERE user_id = $1 AND status IN ('pending', 'active')`
	m, err := scanMembership(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// FindMembershipBySubscriptionID ищет членство по внешнему идентификатору подписки.
func (s *Storage) FindMembershipBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Membership, error) {
	const op = "storage.FindMembershipBySubscriptionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_name, plan_amount, provider_subscription_id,
			      start_date, end_date, status
			  FROM memberships
			  WHERE provider_subscription_id = $1`
	m, err := scanMembership(s.DB.QueryRowContext(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMembershipNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ConfirmMembership атомарно переводит pending-членство пользователя в active,
// записывает внешний идентификатор подписки, сбрасывает дату начала и
// вставляет учредительный платёж на сумму плана. Обе записи выполняются
// в одной транзакции: активное членство без платежа наблюдаться не может.
func (s *Storage) ConfirmMembership(ctx context.Context, userID, subscriptionID string,
	paymentID *string, transactionID string) (*models.Transaction, error) {
	const op = "storage.ConfirmMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE memberships
			  SET status = 'active', provider_subscription_id = $1, start_date = NOW()
			  WHERE user_id = $2 AND status = 'pending'
			  RETURNING id, plan_amount`
	var membershipID string
	var planAmount int64
	if err := tx.QueryRowContext(ctx, query, subscriptionID, userID).Scan(&membershipID, &planAmount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoPendingMembership)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	trx := models.Transaction{
		ID:                transactionID,
		UserID:            userID,
		MembershipID:      membershipID,
		ProviderPaymentID: paymentID,
		Amount:            planAmount,
		PaymentStatus:     models.PaymentStatusSuccess,
	}
	query = `INSERT INTO transactions (id, user_id, membership_id, provider_payment_id, amount, payment_status)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING payment_date`
	if err := tx.QueryRowContext(ctx, query,
		trx.ID, trx.UserID, trx.MembershipID, trx.ProviderPaymentID,
		trx.Amount, trx.PaymentStatus).Scan(&trx.PaymentDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &trx, nil
}

// CancelMembership переводит active-членство пользователя в cancelled
// и проставляет дату окончания. Если активного членства нет,
// возвращает ErrNoActiveMembership.
func (s *Storage) CancelMembership(ctx context.Context, userID string) (time.Time, error) {
	const op = "storage.CancelMembership"
	select {
	case <-ctx.Done():
		return time.Time{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET status = 'cancelled', end_date = NOW()
			  WHERE user_id = $1 AND status = 'active'
			  RETURNING end_date`
	var endDate time.Time
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&endDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%s: %w", op, ErrNoActiveMembership)
		}
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return endDate, nil
}

// CountMembershipsByStatus подсчитывает членства в данном статусе.
func (s *Storage) CountMembershipsByStatus(ctx context.Context, status string) (int, error) {
	const op = "storage.CountMembershipsByStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM memberships WHERE status = $1`
	if err := s.DB.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// SumActivePlanAmounts возвращает сумму plan_amount по всем active-членствам.
func (s *Storage) SumActivePlanAmounts(ctx context.Context) (int64, error) {
	const op = "storage.SumActivePlanAmounts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sum int64
	query := `SELECT COALESCE(SUM(plan_amount), 0) FROM memberships WHERE status = 'active'`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row rowScanner) (*models.Membership, error) {
	var m models.Membership
	var subscriptionID sql.NullString
	var endDate sql.NullTime
	if err := row.Scan(&m.ID, &m.UserID, &m.PlanName, &m.PlanAmount,
		&subscriptionID, &m.StartDate, &endDate, &m.Status); err != nil {
		return nil, err
	}
	if subscriptionID.Valid {
		m.ProviderSubscriptionID = &subscriptionID.String
	}
	if endDate.Valid {
		m.EndDate = &endDate.Time
	}
	return &m, nil
}
