// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`         // Уникальный идентификатор пользователя
	Name         string    `json:"name"`       // Имя пользователя
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	Phone        string    `json:"phone"`      // Телефон
	PasswordHash string    `json:"-"`          // Хэш пароля, наружу не отдается
	Role         string    `json:"role"`       // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"created_at"` // Дата регистрации
}
