package base

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier общий интерфейс исполнителя запросов: ему удовлетворяют
// и *pgxpool.Pool, и pgx.Tx, поэтому репозитории не знают,
// выполняются они внутри транзакции или нет
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager управляет границами транзакций поверх пула
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager создаёт новый менеджер транзакций
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// DB возвращает исполнитель для одиночных запросов вне транзакции
func (m *TxManager) DB() Querier {
	return m.pool
}

// WithinTx выполняет fn внутри одной транзакции: либо все записи
// применяются, либо ни одной
func (m *TxManager) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
