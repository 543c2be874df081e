package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid проверяет что тип транзакции из допустимого набора
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction строка финансового журнала. Сумма всегда положительная,
// знак определяется типом.
type Transaction struct {
	ID          uuid.UUID        `json:"id"`
	Type        TransactionType  `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Date        time.Time        `json:"date"` // Календарная дата операции
	StudentID   *uuid.UUID       `json:"student_id,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"` // Часы для пополнений баланса
	BusinessID  string           `json:"business_id"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
