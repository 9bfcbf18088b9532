// Package models содержит доменные структуры членства,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Статусы членства. Жизненный цикл: pending -> active -> cancelled,
// из cancelled переходов нет.
const (
	MembershipStatusPending   = "pending"
	MembershipStatusActive    = "active"
	MembershipStatusCancelled = "cancelled"
)

// Membership представляет собой запись о членстве пользователя.
// Поле ProviderSubscriptionID остаётся nil до подтверждения оплаты,
// EndDate заполняется только при отмене.
type Membership struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id"`
	PlanName               string     `json:"plan_name"`
	PlanAmount             int64      `json:"plan_amount"` // Сумма плана в основных единицах валюты
	ProviderSubscriptionID *string    `json:"provider_subscription_id"`
	StartDate              time.Time  `json:"start_date"`
	EndDate                *time.Time `json:"end_date"`
	Status                 string     `json:"status"`
}

// CreateMembershipRequest используется для приёма данных из JSON-запроса
// на создание членства. Каталога планов нет, сумма приходит от клиента.
type CreateMembershipRequest struct {
	PlanName   string `json:"plan_name" validate:"required,min=2,max=100"` // Название плана
	PlanAmount int64  `json:"plan_amount" validate:"required,gt=0"`        // Сумма (>0)
}

// ConfirmMembershipRequest используется для подтверждения оплаты:
// идентификаторы подписки и платежа приходят от платёжного шлюза.
type ConfirmMembershipRequest struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
	PaymentID      string `json:"payment_id,omitempty" validate:"omitempty"`
}

// MemberInfo объединяет пользователя и его последнее членство
// для административного списка участников.
type MemberInfo struct {
	User       User        `json:"user"`
	Membership *Membership `json:"membership"`
}

// AdminStats содержит агрегированные показатели для панели администратора.
type AdminStats struct {
	TotalMembers          int   `json:"total_members"`
	TotalMonthlyRecurring int64 `json:"total_monthly_recurring"`
	TotalLifetimeFunds    int64 `json:"total_lifetime_funds"`
	ActiveMemberships     int   `json:"active_memberships"`
	CancelledMemberships  int   `json:"cancelled_memberships"`
}
