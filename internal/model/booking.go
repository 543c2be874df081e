package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Начальный статус
	BookingStatusCompleted BookingStatus = "completed" // Занятие проведено, часы списаны
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено, баланс не трогаем
)

// IsTerminal проверяет является ли статус терминальным
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type Booking struct {
	ID         uuid.UUID       `json:"id"`
	StudentID  uuid.UUID       `json:"student_id"`
	StartTime  time.Time       `json:"start_time"` // Абсолютный момент, в базе UTC
	EndTime    time.Time       `json:"end_time"`
	Duration   decimal.Decimal `json:"duration"` // Часы; именно они идут в биллинг
	Status     BookingStatus   `json:"status"`
	Location   string          `json:"location"`
	MeetingURL string          `json:"meeting_url,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	BusinessID string          `json:"business_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Student *Student `json:"student,omitempty"`
}

// BookingEndTime считает время окончания от старта и длительности в часах.
// Пересчёт в наносекунды без округления: end - start всегда равно длительности
func BookingEndTime(start time.Time, durationHours decimal.Decimal) time.Time {
	nanos := durationHours.Mul(decimal.NewFromInt(int64(time.Hour))).IntPart()
	return start.Add(time.Duration(nanos))
}
