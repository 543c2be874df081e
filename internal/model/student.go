package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Student struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Code       string          `json:"code,omitempty"` // Номер ученика (необязательный)
	Subject    string          `json:"subject"`
	Teacher    string          `json:"teacher"`
	HourlyRate decimal.Decimal `json:"hourly_rate"` // Ставка, валюта/час
	Balance    decimal.Decimal `json:"balance"`     // Остаток часов, может быть отрицательным
	BusinessID string          `json:"business_id"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PrepaidValue стоимость неотработанных часов ученика (для пула unearned revenue).
// Отрицательный баланс — долг часов, в пул не входит.
func (s *Student) PrepaidValue() decimal.Decimal {
	if s.Balance.IsNegative() {
		return decimal.Zero
	}
	return s.Balance.Mul(s.HourlyRate)
}
