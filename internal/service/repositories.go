package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

// Интерфейсы хранилища объявлены на стороне сервисов:
// pgx-реализации живут в internal/repository, тесты подставляют fake-и

type TxManager interface {
	DB() base.Querier
	WithinTx(ctx context.Context, fn func(q base.Querier) error) error
}

type StudentRepository interface {
	Create(ctx context.Context, db base.Querier, student *model.Student) error
	GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Student, error)
	ListByBusiness(ctx context.Context, db base.Querier, businessID string) ([]*model.Student, error)
	Update(ctx context.Context, db base.Querier, student *model.Student) error
	AddToBalance(ctx context.Context, db base.Querier, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, db base.Querier, id uuid.UUID, balance decimal.Decimal) error
	SoftDelete(ctx context.Context, db base.Querier, id uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, db base.Querier, booking *model.Booking) error
	GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Booking, error)
	ListByBusiness(ctx context.Context, db base.Querier, businessID string) ([]*model.Booking, error)
	ListByStudent(ctx context.Context, db base.Querier, studentID uuid.UUID) ([]*model.Booking, error)
	ListForCalendar(ctx context.Context, db base.Querier, businessID string) ([]*model.Booking, error)
	ListCompletedInRange(ctx context.Context, db base.Querier, businessID string, from, to time.Time) ([]*model.Booking, error)
	Reschedule(ctx context.Context, db base.Querier, id uuid.UUID, booking *model.Booking) (int64, error)
	Complete(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Booking, error)
	TransitionStatus(ctx context.Context, db base.Querier, id uuid.UUID, from, to model.BookingStatus) (int64, error)
	CancelFutureByStudent(ctx context.Context, db base.Querier, studentID uuid.UUID, now time.Time) (int64, error)
	Delete(ctx context.Context, db base.Querier, id uuid.UUID) (int64, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, db base.Querier, txn *model.Transaction) error
	GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, db base.Querier, filter repository.TransactionFilter) ([]*model.Transaction, error)
	SumByType(ctx context.Context, db base.Querier, businessID string, from, to time.Time) (income, expense decimal.Decimal, err error)
	Update(ctx context.Context, db base.Querier, txn *model.Transaction) error
	Delete(ctx context.Context, db base.Querier, id uuid.UUID) (int64, error)
}

type BusinessUnitRepository interface {
	List(ctx context.Context, db base.Querier) ([]*model.BusinessUnit, error)
	Exists(ctx context.Context, db base.Querier, id string) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, db base.Querier, user *model.User) error
	GetByEmail(ctx context.Context, db base.Querier, email string) (*model.User, error)
	GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.User, error)
}

var (
	_ TxManager              = (*base.TxManager)(nil)
	_ StudentRepository      = (*repository.StudentRepository)(nil)
	_ BookingRepository      = (*repository.BookingRepository)(nil)
	_ TransactionRepository  = (*repository.TransactionRepository)(nil)
	_ BusinessUnitRepository = (*repository.BusinessUnitRepository)(nil)
	_ UserRepository         = (*repository.UserRepository)(nil)
)
