package models

import "time"

// PaymentStatusSuccess — единственный статус платежа, который сейчас создаётся.
const PaymentStatusSuccess = "success"

// Transaction представляет запись о платеже. Запись неизменяемая:
// после вставки ни обновления, ни удаления не существует.
type Transaction struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	MembershipID      string    `json:"membership_id"`
	ProviderPaymentID *string   `json:"provider_payment_id"`
	Amount            int64     `json:"amount"`
	PaymentStatus     string    `json:"payment_status"`
	PaymentDate       time.Time `json:"payment_date"`
}

// TransactionInfo расширяет Transaction данными владельца,
// подтягиваемыми на чтении для административного списка.
type TransactionInfo struct {
	Transaction
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone"`
}
