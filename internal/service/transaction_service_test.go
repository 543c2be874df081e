package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
)

func newTransactionService() (*TransactionService, *fakeTransactionRepo) {
	txns := newFakeTransactionRepo()
	units := newFakeUnitRepo("tutoring", "driving")
	return NewTransactionService(&fakeTxManager{}, txns, units, zap.NewNop()), txns
}

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Type:       model.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(100),
		Category:   "lessons",
		Date:       time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		BusinessID: "tutoring",
		ActorID:    uuid.New(),
	}
}

func TestTransactionRecord(t *testing.T) {
	svc, _ := newTransactionService()

	in := validTransactionInput()
	txn, err := svc.Record(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, txn.ID)
	assert.Equal(t, in.ActorID, txn.CreatedBy)
	assert.True(t, txn.Amount.Equal(in.Amount))
}

func TestTransactionRecordValidation(t *testing.T) {
	svc, _ := newTransactionService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*TransactionInput)
		want   error
	}{
		{"bad type", func(in *TransactionInput) { in.Type = "transfer" }, ErrValidation},
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, ErrValidation},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }, ErrValidation},
		{"no category", func(in *TransactionInput) { in.Category = "" }, ErrValidation},
		{"no date", func(in *TransactionInput) { in.Date = time.Time{} }, ErrValidation},
		{"no actor", func(in *TransactionInput) { in.ActorID = uuid.Nil }, ErrUnauthorized},
		{"pseudo unit all", func(in *TransactionInput) { in.BusinessID = model.BusinessAll }, ErrValidation},
		{"unknown unit", func(in *TransactionInput) { in.BusinessID = "bakery" }, ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validTransactionInput()
			tc.mutate(&in)
			_, err := svc.Record(ctx, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTransactionUpdatePreservesAuthor(t *testing.T) {
	svc, _ := newTransactionService()
	ctx := context.Background()

	in := validTransactionInput()
	created, err := svc.Record(ctx, in)
	require.NoError(t, err)

	in.Amount = decimal.NewFromInt(150)
	in.ActorID = uuid.New() // другой сотрудник правит запись
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, created.CreatedBy, updated.CreatedBy)
}

func TestTransactionDelete(t *testing.T) {
	svc, _ := newTransactionService()
	ctx := context.Background()

	created, err := svc.Record(ctx, validTransactionInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestTransactionListFilter(t *testing.T) {
	svc, _ := newTransactionService()
	ctx := context.Background()

	income := validTransactionInput()
	_, err := svc.Record(ctx, income)
	require.NoError(t, err)

	expense := validTransactionInput()
	expense.Type = model.TransactionTypeExpense
	expense.Amount = decimal.NewFromInt(40)
	expense.Category = "rent"
	_, err = svc.Record(ctx, expense)
	require.NoError(t, err)

	all, err := svc.List(ctx, repository.TransactionFilter{BusinessID: model.BusinessAll})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	expenseType := model.TransactionTypeExpense
	onlyExpense, err := svc.List(ctx, repository.TransactionFilter{
		BusinessID: "tutoring",
		Type:       &expenseType,
	})
	require.NoError(t, err)
	require.Len(t, onlyExpense, 1)
	assert.Equal(t, "rent", onlyExpense[0].Category)
}
