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

// BalanceService ведёт остатки часов учеников.
// Все дельты применяются атомарно на стороне базы, пары
// "дельта + строка журнала" пишутся в одной транзакции
type BalanceService struct {
	tx          TxManager
	studentRepo StudentRepository
	txnRepo     TransactionRepository
	unitRepo    BusinessUnitRepository
	logger      *zap.Logger
}

func NewBalanceService(
	tx TxManager,
	studentRepo StudentRepository,
	txnRepo TransactionRepository,
	unitRepo BusinessUnitRepository,
	logger *zap.Logger,
) *BalanceService {
	return &BalanceService{
		tx:          tx,
		studentRepo: studentRepo,
		txnRepo:     txnRepo,
		unitRepo:    unitRepo,
		logger:      logger,
	}
}

type TopUpInput struct {
	StudentID  uuid.UUID
	Hours      decimal.Decimal
	Amount     *decimal.Decimal // Если задана — пишем парную income-транзакцию
	Category   string
	BusinessID string
	ActorID    uuid.UUID
}

// TopUp пополняет баланс ученика. При указанной сумме дополнительно
// создаётся income-транзакция с quantity = часы, чтобы пополнение
// было видно в журнале
func (s *BalanceService) TopUp(ctx context.Context, in TopUpInput) (decimal.Decimal, error) {
	if in.StudentID == uuid.Nil {
		return decimal.Zero, fmt.Errorf("%w: student_id is required", ErrValidation)
	}
	if !in.Hours.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: hours must be positive", ErrValidation)
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if in.BusinessID != "" {
		if in.BusinessID == model.BusinessAll {
			return decimal.Zero, fmt.Errorf("%w: business_id must be a real unit", ErrValidation)
		}
		exists, err := s.unitRepo.Exists(ctx, s.tx.DB(), in.BusinessID)
		if err != nil {
			return decimal.Zero, err
		}
		if !exists {
			return decimal.Zero, fmt.Errorf("%w: unknown business unit %q", ErrValidation, in.BusinessID)
		}
	}

	var balance decimal.Decimal

	err := s.tx.WithinTx(ctx, func(q base.Querier) error {
		var err error
		balance, err = s.studentRepo.AddToBalance(ctx, q, in.StudentID, in.Hours)
		if err != nil {
			if base.IsNotFound(err) {
				return fmt.Errorf("%w: student %s", ErrNotFound, in.StudentID)
			}
			return err
		}

		if in.Amount == nil {
			return nil
		}

		student, err := s.studentRepo.GetByID(ctx, q, in.StudentID)
		if err != nil {
			return err
		}

		businessID := in.BusinessID
		if businessID == "" && student != nil {
			businessID = student.BusinessID
		}

		category := in.Category
		if category == "" {
			category = "top-up"
		}

		hours := in.Hours
		studentID := in.StudentID
		txn := &model.Transaction{
			Type:       model.TransactionTypeIncome,
			Amount:     *in.Amount,
			Category:   category,
			Date:       time.Now().UTC(),
			StudentID:  &studentID,
			Quantity:   &hours,
			BusinessID: businessID,
			CreatedBy:  in.ActorID,
		}

		return s.txnRepo.Create(ctx, q, txn)
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("Balance topped up",
		zap.String("student_id", in.StudentID.String()),
		zap.String("hours", in.Hours.String()),
		zap.String("balance", balance.String()),
	)

	return balance, nil
}

// Deduct списывает часы с баланса. Отрицательный остаток допустим:
// ученик ушёл в минус, это не ошибка
func (s *BalanceService) Deduct(ctx context.Context, studentID uuid.UUID, hours decimal.Decimal) (decimal.Decimal, error) {
	if !hours.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: hours must be positive", ErrValidation)
	}

	balance, err := s.studentRepo.AddToBalance(ctx, s.tx.DB(), studentID, hours.Neg())
	if err != nil {
		if base.IsNotFound(err) {
			return decimal.Zero, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
		}
		return decimal.Zero, err
	}

	s.logger.Info("Balance deducted",
		zap.String("student_id", studentID.String()),
		zap.String("hours", hours.String()),
		zap.String("balance", balance.String()),
	)

	return balance, nil
}

// Adjust выставляет баланс напрямую (административная правка)
func (s *BalanceService) Adjust(ctx context.Context, studentID uuid.UUID, balance decimal.Decimal) error {
	err := s.studentRepo.SetBalance(ctx, s.tx.DB(), studentID, balance)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("%w: student %s", ErrNotFound, studentID)
		}
		return err
	}

	s.logger.Info("Balance adjusted",
		zap.String("student_id", studentID.String()),
		zap.String("balance", balance.String()),
	)

	return nil
}
