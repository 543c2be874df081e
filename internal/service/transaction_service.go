package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

type TransactionService struct {
	tx       TxManager
	txnRepo  TransactionRepository
	unitRepo BusinessUnitRepository
	logger   *zap.Logger
}

func NewTransactionService(
	tx TxManager,
	txnRepo TransactionRepository,
	unitRepo BusinessUnitRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		tx:       tx,
		txnRepo:  txnRepo,
		unitRepo: unitRepo,
		logger:   logger,
	}
}

type TransactionInput struct {
	Type        model.TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	StudentID   *uuid.UUID
	Quantity    *decimal.Decimal
	BusinessID  string
	ActorID     uuid.UUID
}

func (in TransactionInput) validate() error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, in.Type)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}

// Record создаёт запись финансового журнала
func (s *TransactionService) Record(ctx context.Context, in TransactionInput) (*model.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.ActorID == uuid.Nil {
		return nil, fmt.Errorf("%w: authenticated user required", ErrUnauthorized)
	}
	if err := s.checkBusinessUnit(ctx, in.BusinessID); err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		StudentID:   in.StudentID,
		Quantity:    in.Quantity,
		BusinessID:  in.BusinessID,
		CreatedBy:   in.ActorID,
	}

	if err := s.txnRepo.Create(ctx, s.tx.DB(), txn); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction recorded",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("type", string(txn.Type)),
		zap.String("amount", txn.Amount.String()),
		zap.String("business_id", txn.BusinessID),
	)

	return txn, nil
}

// Update правит запись журнала
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, in TransactionInput) (*model.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkBusinessUnit(ctx, in.BusinessID); err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		ID:          id,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		StudentID:   in.StudentID,
		Quantity:    in.Quantity,
		BusinessID:  in.BusinessID,
	}

	if err := s.txnRepo.Update(ctx, s.tx.DB(), txn); err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, id)
		}
		return nil, err
	}

	return s.txnRepo.GetByID(ctx, s.tx.DB(), id)
}

// Delete удаляет запись журнала
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.txnRepo.Delete(ctx, s.tx.DB(), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, id)
	}

	s.logger.Info("Transaction deleted", zap.String("transaction_id", id.String()))

	return nil
}

// List получает записи журнала по фильтру
func (s *TransactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]*model.Transaction, error) {
	return s.txnRepo.List(ctx, s.tx.DB(), filter)
}

func (s *TransactionService) checkBusinessUnit(ctx context.Context, businessID string) error {
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
