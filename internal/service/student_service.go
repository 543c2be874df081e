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

type StudentService struct {
	tx          TxManager
	studentRepo StudentRepository
	bookingRepo BookingRepository
	unitRepo    BusinessUnitRepository
	logger      *zap.Logger
}

func NewStudentService(
	tx TxManager,
	studentRepo StudentRepository,
	bookingRepo BookingRepository,
	unitRepo BusinessUnitRepository,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		tx:          tx,
		studentRepo: studentRepo,
		bookingRepo: bookingRepo,
		unitRepo:    unitRepo,
		logger:      logger,
	}
}

type StudentInput struct {
	Name       string
	Code       string
	Subject    string
	Teacher    string
	HourlyRate decimal.Decimal
	Balance    decimal.Decimal // Стартовый баланс при регистрации
	BusinessID string
}

// Register регистрирует нового ученика
func (s *StudentService) Register(ctx context.Context, in StudentInput) (*model.Student, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly_rate must not be negative", ErrValidation)
	}
	if err := s.checkBusinessUnit(ctx, in.BusinessID); err != nil {
		return nil, err
	}

	student := &model.Student{
		Name:       in.Name,
		Code:       in.Code,
		Subject:    in.Subject,
		Teacher:    in.Teacher,
		HourlyRate: in.HourlyRate,
		Balance:    in.Balance,
		BusinessID: in.BusinessID,
	}

	if err := s.studentRepo.Create(ctx, s.tx.DB(), student); err != nil {
		return nil, err
	}

	s.logger.Info("Student registered",
		zap.String("student_id", student.ID.String()),
		zap.String("name", student.Name),
		zap.String("business_id", student.BusinessID),
	)

	return student, nil
}

// Update правит анкету ученика. Баланс этим путём не меняется
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, in StudentInput) (*model.Student, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := s.checkBusinessUnit(ctx, in.BusinessID); err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:         id,
		Name:       in.Name,
		Code:       in.Code,
		Subject:    in.Subject,
		Teacher:    in.Teacher,
		HourlyRate: in.HourlyRate,
		BusinessID: in.BusinessID,
	}

	if err := s.studentRepo.Update(ctx, s.tx.DB(), student); err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, id)
		}
		return nil, err
	}

	return s.studentRepo.GetByID(ctx, s.tx.DB(), id)
}

// GetByID получает ученика по ID
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, s.tx.DB(), id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	return student, nil
}

// ListByBusiness получает активных учеников подразделения
func (s *StudentService) ListByBusiness(ctx context.Context, businessID string) ([]*model.Student, error) {
	return s.studentRepo.ListByBusiness(ctx, s.tx.DB(), businessID)
}

// Delete мягко удаляет ученика: анкета прячется, будущие подтверждённые
// занятия отменяются. Журнал транзакций не трогаем — финансовую
// историю физически не удаляем никогда
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(q base.Querier) error {
		if err := s.studentRepo.SoftDelete(ctx, q, id); err != nil {
			if base.IsNotFound(err) {
				return fmt.Errorf("%w: student %s", ErrNotFound, id)
			}
			return err
		}

		cancelled, err := s.bookingRepo.CancelFutureByStudent(ctx, q, id, time.Now().UTC())
		if err != nil {
			return err
		}

		s.logger.Info("Student deleted",
			zap.String("student_id", id.String()),
			zap.Int64("cancelled_bookings", cancelled),
		)

		return nil
	})

	return err
}

func (s *StudentService) checkBusinessUnit(ctx context.Context, businessID string) error {
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
