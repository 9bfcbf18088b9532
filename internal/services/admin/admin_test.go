package admin

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) CountUsersByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) CountMembershipsByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) SumActivePlanAmounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepositoryMock) SumSuccessfulTransactions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepositoryMock) ListMembers(ctx context.Context) ([]*models.MemberInfo, error) {
	args := m.Called(ctx)
	members, _ := args.Get(0).([]*models.MemberInfo)
	return members, args.Error(1)
}

func (m *RepositoryMock) ListAllTransactions(ctx context.Context) ([]*models.TransactionInfo, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]*models.TransactionInfo)
	return txs, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestStats(t *testing.T) {
	repo := new(RepositoryMock)
	service := New(repo, newNoopLogger())

	repo.On("CountUsersByRole", mock.Anything, models.RoleUser).Return(10, nil).Once()
	repo.On("CountMembershipsByStatus", mock.Anything, models.MembershipStatusActive).Return(7, nil).Once()
	repo.On("CountMembershipsByStatus", mock.Anything, models.MembershipStatusCancelled).Return(2, nil).Once()
	repo.On("SumActivePlanAmounts", mock.Anything).Return(int64(3500), nil).Once()
	repo.On("SumSuccessfulTransactions", mock.Anything).Return(int64(42000), nil).Once()

	stats, err := service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalMembers)
	assert.Equal(t, 7, stats.ActiveMemberships)
	assert.Equal(t, 2, stats.CancelledMemberships)
	assert.Equal(t, int64(3500), stats.TotalMonthlyRecurring)
	assert.Equal(t, int64(42000), stats.TotalLifetimeFunds)
	repo.AssertExpectations(t)
}

func TestStats_RepositoryFailure(t *testing.T) {
	repo := new(RepositoryMock)
	service := New(repo, newNoopLogger())

	repo.On("CountUsersByRole", mock.Anything, models.RoleUser).Return(0, errors.New("db down")).Once()

	_, err := service.Stats(context.Background())

	assert.Error(t, err)
}

func TestExportMembersCSV(t *testing.T) {
	repo := new(RepositoryMock)
	service := New(repo, newNoopLogger())

	subID := "sub_123"
	startDate := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)

	members := []*models.MemberInfo{
		{
			User: models.User{Name: "Alice Smith", Email: "alice@example.com", Phone: "1234567890"},
			Membership: &models.Membership{
				PlanName:               "Gold",
				PlanAmount:             500,
				Status:                 models.MembershipStatusActive,
				StartDate:              startDate,
				ProviderSubscriptionID: &subID,
			},
		},
		{
			User: models.User{Name: "Bob Jones", Email: "bob@example.com", Phone: "0987654321"},
		},
	}
	repo.On("ListMembers", mock.Anything).Return(members, nil).Once()

	data, err := service.ExportMembersCSV(context.Background())

	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Name", "Email", "Phone", "Plan Name", "Plan Amount",
		"Membership Status", "Start Date", "Subscription ID"}, records[0])

	assert.Equal(t, []string{"Alice Smith", "alice@example.com", "1234567890",
		"Gold", "500", "active", "2026-08-01T12:30:00Z", "sub_123"}, records[1])

	// Участник без членства получает заполнители.
	assert.Equal(t, []string{"Bob Jones", "bob@example.com", "0987654321",
		"N/A", "0", "N/A", "N/A", "N/A"}, records[2])
}

func TestExportMembersCSV_RepositoryFailure(t *testing.T) {
	repo := new(RepositoryMock)
	service := New(repo, newNoopLogger())

	repo.On("ListMembers", mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := service.ExportMembersCSV(context.Background())

	assert.Error(t, err)
}
