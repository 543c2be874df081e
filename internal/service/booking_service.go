package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

// Формат местного времени из форм записи (без смещения)
const localTimeLayout = "2006-01-02T15:04"

type BookingService struct {
	tx          TxManager
	studentRepo StudentRepository
	bookingRepo BookingRepository
	unitRepo    BusinessUnitRepository
	logger      *zap.Logger
}

func NewBookingService(
	tx TxManager,
	studentRepo StudentRepository,
	bookingRepo BookingRepository,
	unitRepo BusinessUnitRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:          tx,
		studentRepo: studentRepo,
		bookingRepo: bookingRepo,
		unitRepo:    unitRepo,
		logger:      logger,
	}
}

type CreateBookingInput struct {
	StudentID  uuid.UUID
	StartTime  string // Местное время "2006-01-02T15:04" либо RFC3339
	Timezone   string // IANA-зона местного времени, пусто = UTC
	Duration   decimal.Decimal
	BusinessID string
	Location   string
	MeetingURL string
	Notes      string
}

type RescheduleInput struct {
	StartTime string
	Timezone  string
	Duration  decimal.Decimal
	Location  string
}

// ParseLocalTime парсит время записи: принимаем и RFC3339, и местное
// настенное время с IANA-зоной. Хранится всегда абсолютный момент в UTC,
// поэтому перенос занятия из другого часового пояса не сдвигает стену
func ParseLocalTime(value, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	loc := time.UTC
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unknown timezone %q", ErrValidation, tz)
		}
	}

	t, err := time.ParseInLocation(localTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparsable start time %q", ErrValidation, value)
	}

	return t.UTC(), nil
}

// Create создаёт бронирование в статусе confirmed.
// Пересечения по времени не проверяем: параллельные занятия
// (группа, второй преподаватель) — легальный случай
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if in.StudentID == uuid.Nil {
		return nil, fmt.Errorf("%w: student_id is required", ErrValidation)
	}
	if !in.Duration.IsPositive() {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}

	start, err := ParseLocalTime(in.StartTime, in.Timezone)
	if err != nil {
		return nil, err
	}

	if err := s.checkBusinessUnit(ctx, in.BusinessID); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, s.tx.DB(), in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, in.StudentID)
	}

	booking := &model.Booking{
		StudentID:  in.StudentID,
		StartTime:  start,
		EndTime:    model.BookingEndTime(start, in.Duration),
		Duration:   in.Duration,
		Status:     model.BookingStatusConfirmed,
		Location:   in.Location,
		MeetingURL: in.MeetingURL,
		Notes:      in.Notes,
		BusinessID: in.BusinessID,
	}

	if err := s.bookingRepo.Create(ctx, s.tx.DB(), booking); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("student_id", in.StudentID.String()),
		zap.Time("start_time", booking.StartTime),
		zap.String("duration", in.Duration.String()),
		zap.String("business_id", in.BusinessID),
	)

	return booking, nil
}

// Reschedule переносит занятие. Разрешено только из confirmed
func (s *BookingService) Reschedule(ctx context.Context, bookingID uuid.UUID, in RescheduleInput) (*model.Booking, error) {
	if !in.Duration.IsPositive() {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}

	start, err := ParseLocalTime(in.StartTime, in.Timezone)
	if err != nil {
		return nil, err
	}

	updated := &model.Booking{
		StartTime: start,
		EndTime:   model.BookingEndTime(start, in.Duration),
		Duration:  in.Duration,
		Location:  in.Location,
	}

	affected, err := s.bookingRepo.Reschedule(ctx, s.tx.DB(), bookingID, updated)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, s.tx.DB(), bookingID)
	}

	s.logger.Info("Booking rescheduled",
		zap.String("booking_id", bookingID.String()),
		zap.Time("start_time", start),
	)

	return s.bookingRepo.GetByID(ctx, s.tx.DB(), bookingID)
}

// Complete завершает занятие и списывает его часы с баланса ученика.
// Обе записи идут в одной транзакции. Переход статуса и чтение часов —
// одна команда UPDATE ... RETURNING: повторный вызов не спишет часы
// дважды, а конкурентный перенос не подменит длительность между
// чтением и списанием
func (s *BookingService) Complete(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	var booking *model.Booking

	err := s.tx.WithinTx(ctx, func(q base.Querier) error {
		var err error
		booking, err = s.bookingRepo.Complete(ctx, q, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return s.transitionFailure(ctx, q, bookingID)
		}

		balance, err := s.studentRepo.AddToBalance(ctx, q, booking.StudentID, booking.Duration.Neg())
		if err != nil {
			if base.IsNotFound(err) {
				return fmt.Errorf("%w: student %s", ErrNotFound, booking.StudentID)
			}
			return err
		}

		s.logger.Info("Booking completed",
			zap.String("booking_id", bookingID.String()),
			zap.String("student_id", booking.StudentID.String()),
			zap.String("deducted_hours", booking.Duration.String()),
			zap.String("balance", balance.String()),
		)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// Cancel отменяет занятие без влияния на баланс.
// Завершённое занятие отменить нельзя: терминальные статусы окончательны
func (s *BookingService) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	affected, err := s.bookingRepo.TransitionStatus(ctx, s.tx.DB(), bookingID, model.BookingStatusConfirmed, model.BookingStatusCancelled)
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.transitionFailure(ctx, s.tx.DB(), bookingID)
	}

	s.logger.Info("Booking cancelled", zap.String("booking_id", bookingID.String()))

	return nil
}

// Delete удаляет бронирование физически. Баланс не откатывается
func (s *BookingService) Delete(ctx context.Context, bookingID uuid.UUID) error {
	affected, err := s.bookingRepo.Delete(ctx, s.tx.DB(), bookingID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	s.logger.Info("Booking deleted", zap.String("booking_id", bookingID.String()))

	return nil
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, s.tx.DB(), bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}
	return booking, nil
}

// ListByBusiness получает бронирования подразделения (или всех при "all")
func (s *BookingService) ListByBusiness(ctx context.Context, businessID string) ([]*model.Booking, error) {
	return s.bookingRepo.ListByBusiness(ctx, s.tx.DB(), businessID)
}

// ListByStudent получает бронирования ученика
func (s *BookingService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	return s.bookingRepo.ListByStudent(ctx, s.tx.DB(), studentID)
}

// transitionFailure различает "нет такого бронирования" и
// "бронирование уже в терминальном статусе"
func (s *BookingService) transitionFailure(ctx context.Context, q base.Querier, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, q, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}
	return fmt.Errorf("%w: booking %s is %s", ErrInvalidTransition, bookingID, booking.Status)
}

func (s *BookingService) checkBusinessUnit(ctx context.Context, businessID string) error {
	if businessID == "" || businessID == model.BusinessAll {
		return fmt.Errorf("%w: business_id is required", ErrValidation)
	}
	exists, err := s.unitRepo.Exists(ctx, s.tx.DB(), businessID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: unknown business unit %q", ErrValidation, businessID)
	}
	return nil
}
