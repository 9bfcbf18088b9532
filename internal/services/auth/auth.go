// Package auth содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-fund/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-fund/internal/lib/password"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

// ErrInvalidCredentials возвращается при неверном email или пароле.
// Текст одинаков для обоих случаев, чтобы не раскрывать, существует ли учётная запись.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает запись с датой создания.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по ID или storage.ErrUserNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и разрешение сессии.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user",
// после чего выпускает токен сессии. При занятом email возвращает
// storage.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, phone, rawPassword string) (string, *models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", nil, err
	}
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(created.ID, created.Email)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login проверяет пароль пользователя и выпускает токен сессии.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ResolveSession проверяет токен и перечитывает пользователя из базы.
// Роль и остальные поля берутся из базы, из токена — только идентификатор.
func (s *Service) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ResolveSession"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// EnsureAdmin идемпотентно создает административную учётную запись:
// если пользователь с данным email уже существует, ничего не делает.
// Вызывается один раз при старте приложения.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, phone, rawPassword string) error {
	const op = "auth.EnsureAdmin"
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	admin := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}
	if _, err := s.users.CreateUser(ctx, admin); err != nil {
		// Параллельный старт мог создать запись первым.
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin user created", slog.String("email", email))
	return nil
}
