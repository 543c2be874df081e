package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// TransactionFilter параметры выборки журнала
type TransactionFilter struct {
	BusinessID string
	From       *time.Time
	To         *time.Time
	Type       *model.TransactionType
	StudentID  *uuid.UUID
}

// Create создаёт запись журнала
func (r *TransactionRepository) Create(ctx context.Context, db base.Querier, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (type, amount, category, description, date, student_id, quantity, business_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(
		ctx, query,
		txn.Type,
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.Date,
		txn.StudentID,
		txn.Quantity,
		txn.BusinessID,
		txn.CreatedBy,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}

// GetByID получает запись журнала по ID
func (r *TransactionRepository) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, date, student_id, quantity, business_id, created_by, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	var txn model.Transaction
	err := db.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.Type,
		&txn.Amount,
		&txn.Category,
		&txn.Description,
		&txn.Date,
		&txn.StudentID,
		&txn.Quantity,
		&txn.BusinessID,
		&txn.CreatedBy,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}

	return &txn, nil
}

// List получает записи журнала по фильтру, свежие сверху
func (r *TransactionRepository) List(ctx context.Context, db base.Querier, filter TransactionFilter) ([]*model.Transaction, error) {
	query := `
		SELECT id, type, amount, category, description, date, student_id, quantity, business_id, created_by, created_at, updated_at
		FROM transactions
		WHERE ($1 = 'all' OR business_id = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date < $3)
		  AND ($4::text IS NULL OR type = $4)
		  AND ($5::uuid IS NULL OR student_id = $5)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := db.Query(ctx, query, filter.BusinessID, filter.From, filter.To, filter.Type, filter.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.Transaction
	for rows.Next() {
		var txn model.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.Type,
			&txn.Amount,
			&txn.Category,
			&txn.Description,
			&txn.Date,
			&txn.StudentID,
			&txn.Quantity,
			&txn.BusinessID,
			&txn.CreatedBy,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	return txns, nil
}

// SumByType считает обороты по типам за окно (для cash flow)
func (r *TransactionRepository) SumByType(ctx context.Context, db base.Querier, businessID string, from, to time.Time) (income, expense decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE date >= $2 AND date < $3
		  AND ($1 = 'all' OR business_id = $1)
	`

	err = db.QueryRow(ctx, query, businessID, from, to).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}

	return income, expense, nil
}

// Update правит запись журнала
func (r *TransactionRepository) Update(ctx context.Context, db base.Querier, txn *model.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, description = $4, date = $5, student_id = $6, quantity = $7, business_id = $8, updated_at = now()
		WHERE id = $9
	`

	result, err := db.Exec(
		ctx, query,
		txn.Type,
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.Date,
		txn.StudentID,
		txn.Quantity,
		txn.BusinessID,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete удаляет запись журнала
func (r *TransactionRepository) Delete(ctx context.Context, db base.Querier, id uuid.UUID) (int64, error) {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := db.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}

	return result.RowsAffected(), nil
}
