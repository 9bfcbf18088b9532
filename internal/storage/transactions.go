package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// CreateTransaction вставляет новую запись о платеже и возвращает её
// с заполненной датой. Записи о платежах неизменяемы.
func (s *Storage) CreateTransaction(ctx context.Context, trx models.Transaction) (*models.Transaction, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (id, user_id, membership_id, provider_payment_id, amount, payment_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING payment_date`
	if err := s.DB.QueryRowContext(ctx, query,
		trx.ID, trx.UserID, trx.MembershipID, trx.ProviderPaymentID,
		trx.Amount, trx.PaymentStatus).Scan(&trx.PaymentDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &trx, nil
}

// ListUserTransactions возвращает платежи пользователя, новые первыми,
// не более limit записей.
func (s *Storage) ListUserTransactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	const op = "storage.ListUserTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, membership_id, provider_payment_id, amount, payment_status, payment_date
			  FROM transactions
			  WHERE user_id = $1
			  ORDER BY payment_date DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Transaction
	for rows.Next() {
		var trx models.Transaction
		var paymentID sql.NullString
		if err := rows.Scan(&trx.ID, &trx.UserID, &trx.MembershipID, &paymentID,
			&trx.Amount, &trx.PaymentStatus, &trx.PaymentDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if paymentID.Valid {
			trx.ProviderPaymentID = &paymentID.String
		}
		result = append(result, &trx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllTransactions возвращает все платежи, новые первыми, обогащая каждую
// запись именем, email и телефоном владельца на чтении.
func (s *Storage) ListAllTransactions(ctx context.Context) ([]*models.TransactionInfo, error) {
	const op = "storage.ListAllTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.user_id, t.membership_id, t.provider_payment_id,
			      t.amount, t.payment_status, t.payment_date,
			      u.name, u.email, u.phone
			  FROM transactions t
			  JOIN users u ON t.user_id = u.id
			  ORDER BY t.payment_date DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TransactionInfo
	for rows.Next() {
		var ti models.TransactionInfo
		var paymentID sql.NullString
		if err := rows.Scan(&ti.ID, &ti.UserID, &ti.MembershipID, &paymentID,
			&ti.Amount, &ti.PaymentStatus, &ti.PaymentDate,
			&ti.UserName, &ti.UserEmail, &ti.UserPhone); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if paymentID.Valid {
			ti.ProviderPaymentID = &paymentID.String
		}
		result = append(result, &ti)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumSuccessfulTransactions возвращает сумму по всем платежам со статусом success.
func (s *Storage) SumSuccessfulTransactions(ctx context.Context) (int64, error) {
	const op = "storage.SumSuccessfulTransactions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sum int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE payment_status = 'success'`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}
