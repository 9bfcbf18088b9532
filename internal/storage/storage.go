// Package storage реализует хранилище данных на основе PostgreSQL
// для управления пользователями, членствами и платежами. Предоставляет методы
// создания, чтения, обновления и агрегирования записей.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Сервисы и обработчики сопоставляют их
// с кодами Conflict / Unauthorized / NotFound.
var (
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateMembership — у пользователя уже есть членство в статусе pending или active.
	ErrDuplicateMembership = errors.New("user already has a live membership")
	// ErrNoPendingMembership — у пользователя нет членства в статусе pending.
	ErrNoPendingMembership = errors.New("no pending membership found")
	// ErrNoActiveMembership — у пользователя нет членства в статусе active.
	ErrNoActiveMembership = errors.New("no active membership found")
	// ErrMembershipNotFound — членство не найдено по внешнему идентификатору подписки.
	ErrMembershipNotFound = errors.New("membership not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, членствами и платежами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'memberships'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table memberships missing or query error: %w", err)
	}
	return nil
}
