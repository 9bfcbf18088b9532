package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-fund/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-fund/internal/lib/password"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type JWTMakerMock struct {
	mock.Mock
}

func (m *JWTMakerMock) GenerateToken(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *JWTMakerMock) ParseToken(tokenStr string) (*jwt.SessionClaims, error) {
	args := m.Called(tokenStr)
	claims, _ := args.Get(0).(*jwt.SessionClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegister(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "alice@example.com" && u.Role == models.RoleUser && u.PasswordHash != "secret123"
	})).Return(&models.User{ID: "user-1", Email: "alice@example.com", Role: models.RoleUser}, nil).Once()
	maker.On("GenerateToken", "user-1", "alice@example.com").Return("tok", nil).Once()

	token, user, err := service.Register(context.Background(), "Alice", "alice@example.com", "1234567890", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "user-1", user.ID)
	repo.AssertExpectations(t)
	maker.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, storage.ErrEmailTaken).Once()

	_, _, err := service.Register(context.Background(), "Alice", "alice@example.com", "1234567890", "secret123")

	assert.ErrorIs(t, err, storage.ErrEmailTaken)
	maker.AssertNotCalled(t, "GenerateToken")
}

func TestLogin(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	stored := &models.User{ID: "user-1", Email: "alice@example.com", PasswordHash: hash}
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()
	maker.On("GenerateToken", "user-1", "alice@example.com").Return("tok", nil).Once()

	token, user, err := service.Login(context.Background(), "alice@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, stored, user)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, storage.ErrUserNotFound).Once()

	_, _, err := service.Login(context.Background(), "ghost@example.com", "secret123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	stored := &models.User{ID: "user-1", Email: "alice@example.com", PasswordHash: hash}
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()

	_, _, err = service.Login(context.Background(), "alice@example.com", "wrongpass")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	maker.AssertNotCalled(t, "GenerateToken")
}

func TestResolveSession(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	claims := &jwt.SessionClaims{UserID: "user-1", Email: "alice@example.com"}
	stored := &models.User{ID: "user-1", Email: "alice@example.com", Role: models.RoleAdmin}

	maker.On("ParseToken", "tok").Return(claims, nil).Once()
	repo.On("GetUser", mock.Anything, "user-1").Return(stored, nil).Once()

	user, err := service.ResolveSession(context.Background(), "tok")

	require.NoError(t, err)
	// Роль берется из базы, а не из токена.
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestResolveSession_BadToken(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	maker.On("ParseToken", "bad").Return(nil, errors.New("token is malformed")).Once()

	_, err := service.ResolveSession(context.Background(), "bad")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "GetUser")
}

func TestEnsureAdmin_AlreadyExists(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "baqir@gmail.com").
		Return(&models.User{ID: "admin-1", Role: models.RoleAdmin}, nil).Once()

	err := service.EnsureAdmin(context.Background(), "Baqir Admin", "baqir@gmail.com", "9999999999", "admin123")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateUser")
}

func TestEnsureAdmin_CreatesAdmin(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "baqir@gmail.com").Return(nil, storage.ErrUserNotFound).Once()
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleAdmin && u.Email == "baqir@gmail.com"
	})).Return(&models.User{ID: "admin-1", Role: models.RoleAdmin}, nil).Once()

	err := service.EnsureAdmin(context.Background(), "Baqir Admin", "baqir@gmail.com", "9999999999", "admin123")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureAdmin_ConcurrentCreate(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	service := New(repo, maker, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "baqir@gmail.com").Return(nil, storage.ErrUserNotFound).Once()
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, storage.ErrEmailTaken).Once()

	err := service.EnsureAdmin(context.Background(), "Baqir Admin", "baqir@gmail.com", "9999999999", "admin123")

	require.NoError(t, err)
}
