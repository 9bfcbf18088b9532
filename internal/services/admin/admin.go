// Package admin содержит административную отчетность: агрегированные
// показатели, список участников, список платежей и CSV-выгрузку.
// Все операции — чистые чтения, без мутаций.
package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

// csvPlaceholder подставляется в текстовые колонки участника без членства.
const csvPlaceholder = "N/A"

// Repository определяет методы чтения, нужные отчетности.
type Repository interface {
	CountUsersByRole(ctx context.Context, role string) (int, error)
	CountMembershipsByStatus(ctx context.Context, status string) (int, error)
	SumActivePlanAmounts(ctx context.Context) (int64, error)
	SumSuccessfulTransactions(ctx context.Context) (int64, error)
	ListMembers(ctx context.Context) ([]*models.MemberInfo, error)
	ListAllTransactions(ctx context.Context) ([]*models.TransactionInfo, error)
}

// Service реализует административную отчетность.
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

// Stats возвращает агрегированные показатели: количество участников,
// активных и отмененных членств, месячный повторяющийся доход (сумма
// планов активных членств) и собранные за все время средства (сумма
// успешных платежей).
func (s *Service) Stats(ctx context.Context) (*models.AdminStats, error) {
	const op = "admin.Stats"

	totalMembers, err := s.repo.CountUsersByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	active, err := s.repo.CountMembershipsByStatus(ctx, models.MembershipStatusActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cancelled, err := s.repo.CountMembershipsByStatus(ctx, models.MembershipStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	recurring, err := s.repo.SumActivePlanAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lifetime, err := s.repo.SumSuccessfulTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.AdminStats{
		TotalMembers:          totalMembers,
		TotalMonthlyRecurring: recurring,
		TotalLifetimeFunds:    lifetime,
		ActiveMemberships:     active,
		CancelledMemberships:  cancelled,
	}, nil
}

// Members возвращает всех участников с прикрепленным последним членством.
func (s *Service) Members(ctx context.Context) ([]*models.MemberInfo, error) {
	return s.repo.ListMembers(ctx)
}

// Transactions возвращает все платежи с данными владельца.
func (s *Service) Transactions(ctx context.Context) ([]*models.TransactionInfo, error) {
	return s.repo.ListAllTransactions(ctx)
}

// ExportMembersCSV сериализует список участников в таблицу из восьми
// колонок. Для участника без членства текстовые поля заполняются
// значением N/A, сумма — нулём.
func (s *Service) ExportMembersCSV(ctx context.Context) ([]byte, error) {
	const op = "admin.ExportMembersCSV"

	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Name", "Email", "Phone", "Plan Name", "Plan Amount",
		"Membership Status", "Start Date", "Subscription ID"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, mi := range members {
		row := []string{mi.User.Name, mi.User.Email, mi.User.Phone,
			csvPlaceholder, "0", csvPlaceholder, csvPlaceholder, csvPlaceholder}
		if m := mi.Membership; m != nil {
			row[3] = m.PlanName
			row[4] = strconv.FormatInt(m.PlanAmount, 10)
			row[5] = m.Status
			row[6] = m.StartDate.UTC().Format("2006-01-02T15:04:05Z07:00")
			if m.ProviderSubscriptionID != nil {
				row[7] = *m.ProviderSubscriptionID
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
