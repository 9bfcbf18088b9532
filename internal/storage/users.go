package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает дату создания записи.
// При нарушении уникальности email возвращает ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, name, email, phone, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash,
		user.Role).Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, password_hash, role, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID или ErrUserNotFound.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, password_hash, role, created_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userID)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CountUsersByRole подсчитывает пользователей с данной ролью.
func (s *Storage) CountUsersByRole(ctx context.Context, role string) (int, error) {
	const op = "storage.CountUsersByRole"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM users WHERE role = $1`
	if err := s.DB.QueryRowContext(ctx, query, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListMembers возвращает всех пользователей с ролью user вместе с их
// последним членством (по дате начала), если оно есть.
func (s *Storage) ListMembers(ctx context.Context) ([]*models.MemberInfo, error) {
	const op = "storage.ListMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.name, u.email, u.phone, u.role, u.created_at,
			      m.id, m.user_id, m.plan_name, m.plan_amount, m.provider_subscription_id,
			      m.start_date, m.end_date, m.status
			  FROM users u
			  LEFT JOIN LATERAL (
			      SELECT * FROM memberships
			      WHERE user_id = u.id
			      ORDER BY start_date DESC
			      LIMIT 1
			  ) m ON true
			  WHERE u.role = 'user'
			  ORDER BY u.created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MemberInfo
	for rows.Next() {
		var mi models.MemberInfo
		var (
			mID, mUserID, mPlanName, mStatus sql.NullString
			mPlanAmount                      sql.NullInt64
			mSubscriptionID                  sql.NullString
			mStartDate, mEndDate             sql.NullTime
		)
		if err := rows.Scan(&mi.User.ID, &mi.User.Name, &mi.User.Email, &mi.User.Phone,
			&mi.User.Role, &mi.User.CreatedAt,
			&mID, &mUserID, &mPlanName, &mPlanAmount, &mSubscriptionID,
			&mStartDate, &mEndDate, &mStatus); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if mID.Valid {
			m := &models.Membership{
				ID:         mID.String,
				UserID:     mUserID.String,
				PlanName:   mPlanName.String,
				PlanAmount: mPlanAmount.Int64,
				StartDate:  mStartDate.Time,
				Status:     mStatus.String,
			}
			if mSubscriptionID.Valid {
				m.ProviderSubscriptionID = &mSubscriptionID.String
			}
			if mEndDate.Valid {
				m.EndDate = &mEndDate.Time
			}
			mi.Membership = m
		}
		result = append(result, &mi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
