package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

// In-memory fakes для сервисных тестов: интерфейсы те же,
// Querier игнорируется

type fakeTxManager struct{}

func (f *fakeTxManager) DB() base.Querier { return nil }

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(q base.Querier) error) error {
	return fn(nil)
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[uuid.UUID]*model.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[uuid.UUID]*model.Student{}}
}

func (f *fakeStudentRepo) Create(ctx context.Context, db base.Querier, student *model.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student.ID = uuid.New()
	student.IsActive = true
	student.CreatedAt = time.Now().UTC()
	student.UpdatedAt = student.CreatedAt
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok || !student.IsActive {
		return nil, nil
	}
	copied := *student
	return &copied, nil
}

func (f *fakeStudentRepo) ListByBusiness(ctx context.Context, db base.Querier, businessID string) ([]*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Student
	for _, student := range f.students {
		if !student.IsActive {
			continue
		}
		if businessID != model.BusinessAll && student.BusinessID != businessID {
			continue
		}
		copied := *student
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, db base.Querier, student *model.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.students[student.ID]
	if !ok || !existing.IsActive {
		return pgx.ErrNoRows
	}
	existing.Name = student.Name
	existing.Code = student.Code
	existing.Subject = student.Subject
	existing.Teacher = student.Teacher
	existing.HourlyRate = student.HourlyRate
	existing.BusinessID = student.BusinessID
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeStudentRepo) AddToBalance(ctx context.Context, db base.Querier, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok || !student.IsActive {
		return decimal.Zero, pgx.ErrNoRows
	}
	student.Balance = student.Balance.Add(delta)
	return student.Balance, nil
}

func (f *fakeStudentRepo) SetBalance(ctx context.Context, db base.Querier, id uuid.UUID, balance decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok || !student.IsActive {
		return pgx.ErrNoRows
	}
	student.Balance = balance
	return nil
}

func (f *fakeStudentRepo) SoftDelete(ctx context.Context, db base.Querier, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok || !student.IsActive {
		return pgx.ErrNoRows
	}
	student.IsActive = false
	return nil
}

// seed кладёт ученика напрямую, минуя Create
func (f *fakeStudentRepo) seed(student *model.Student) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	student.IsActive = true
	f.students[student.ID] = student
	return student.ID
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*model.Booking
	students *fakeStudentRepo
}

func newFakeBookingRepo(students *fakeStudentRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[uuid.UUID]*model.Booking{},
		students: students,
	}
}

func (f *fakeBookingRepo) Create(ctx context.Context, db base.Querier, booking *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now().UTC()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) ListByBusiness(ctx context.Context, db base.Querier, businessID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, booking := range f.bookings {
		if businessID != model.BusinessAll && booking.BusinessID != businessID {
			continue
		}
		copied := *booking
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByStudent(ctx context.Context, db base.Querier, studentID uuid.UUID) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, booking := range f.bookings {
		if booking.StudentID == studentID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListForCalendar(ctx context.Context, db base.Querier, businessID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, booking := range f.bookings {
		if booking.Status == model.BookingStatusCancelled {
			continue
		}
		if businessID != model.BusinessAll && booking.BusinessID != businessID {
			continue
		}
		copied := *booking
		copied.Student = f.studentOf(booking.StudentID)
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListCompletedInRange(ctx context.Context, db base.Querier, businessID string, from, to time.Time) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, booking := range f.bookings {
		if booking.Status != model.BookingStatusCompleted {
			continue
		}
		if booking.StartTime.Before(from) || !booking.StartTime.Before(to) {
			continue
		}
		if businessID != model.BusinessAll && booking.BusinessID != businessID {
			continue
		}
		copied := *booking
		copied.Student = f.studentOf(booking.StudentID)
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeBookingRepo) Reschedule(ctx context.Context, db base.Querier, id uuid.UUID, booking *model.Booking) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.bookings[id]
	if !ok || existing.Status != model.BookingStatusConfirmed {
		return 0, nil
	}
	existing.StartTime = booking.StartTime
	existing.EndTime = booking.EndTime
	existing.Duration = booking.Duration
	existing.Location = booking.Location
	return 1, nil
}

func (f *fakeBookingRepo) Complete(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.bookings[id]
	if !ok || existing.Status != model.BookingStatusConfirmed {
		return nil, nil
	}
	existing.Status = model.BookingStatusCompleted
	existing.UpdatedAt = time.Now().UTC()
	copied := *existing
	return &copied, nil
}

func (f *fakeBookingRepo) TransitionStatus(ctx context.Context, db base.Querier, id uuid.UUID, from, to model.BookingStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.bookings[id]
	if !ok || existing.Status != from {
		return 0, nil
	}
	existing.Status = to
	return 1, nil
}

func (f *fakeBookingRepo) CancelFutureByStudent(ctx context.Context, db base.Querier, studentID uuid.UUID, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, booking := range f.bookings {
		if booking.StudentID == studentID && booking.Status == model.BookingStatusConfirmed && !booking.StartTime.Before(now) {
			booking.Status = model.BookingStatusCancelled
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, db base.Querier, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return 0, nil
	}
	delete(f.bookings, id)
	return 1, nil
}

func (f *fakeBookingRepo) studentOf(id uuid.UUID) *model.Student {
	if f.students == nil {
		return nil
	}
	student, ok := f.students.students[id]
	if !ok {
		return nil
	}
	copied := *student
	return &copied
}

type fakeTransactionRepo struct {
	mu   sync.Mutex
	txns map[uuid.UUID]*model.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txns: map[uuid.UUID]*model.Transaction{}}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, db base.Querier, txn *model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn.ID = uuid.New()
	txn.CreatedAt = time.Now().UTC()
	txn.UpdatedAt = txn.CreatedAt
	copied := *txn
	f.txns[txn.ID] = &copied
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[id]
	if !ok {
		return nil, nil
	}
	copied := *txn
	return &copied, nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, db base.Querier, filter repository.TransactionFilter) ([]*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Transaction
	for _, txn := range f.txns {
		if filter.BusinessID != model.BusinessAll && txn.BusinessID != filter.BusinessID {
			continue
		}
		if filter.From != nil && txn.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !txn.Date.Before(*filter.To) {
			continue
		}
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		if filter.StudentID != nil && (txn.StudentID == nil || *txn.StudentID != *filter.StudentID) {
			continue
		}
		copied := *txn
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTransactionRepo) SumByType(ctx context.Context, db base.Querier, businessID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	income, expense := decimal.Zero, decimal.Zero
	for _, txn := range f.txns {
		if businessID != model.BusinessAll && txn.BusinessID != businessID {
			continue
		}
		if txn.Date.Before(from) || !txn.Date.Before(to) {
			continue
		}
		switch txn.Type {
		case model.TransactionTypeIncome:
			income = income.Add(txn.Amount)
		case model.TransactionTypeExpense:
			expense = expense.Add(txn.Amount)
		}
	}
	return income, expense, nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, db base.Querier, txn *model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.txns[txn.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	created, createdBy := existing.CreatedAt, existing.CreatedBy
	copied := *txn
	copied.CreatedAt = created
	copied.CreatedBy = createdBy
	copied.UpdatedAt = time.Now().UTC()
	f.txns[txn.ID] = &copied
	return nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, db base.Querier, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.txns[id]; !ok {
		return 0, nil
	}
	delete(f.txns, id)
	return 1, nil
}

type fakeUnitRepo struct {
	units map[string]*model.BusinessUnit
}

func newFakeUnitRepo(ids ...string) *fakeUnitRepo {
	units := map[string]*model.BusinessUnit{}
	for _, id := range ids {
		units[id] = &model.BusinessUnit{ID: id, Label: id, Kind: model.UnitKindUnit}
	}
	return &fakeUnitRepo{units: units}
}

func (f *fakeUnitRepo) List(ctx context.Context, db base.Querier) ([]*model.BusinessUnit, error) {
	var out []*model.BusinessUnit
	for _, unit := range f.units {
		out = append(out, unit)
	}
	return out, nil
}

func (f *fakeUnitRepo) Exists(ctx context.Context, db base.Querier, id string) (bool, error) {
	_, ok := f.units[id]
	return ok, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, db base.Querier, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, db base.Querier, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

var (
	_ TxManager              = (*fakeTxManager)(nil)
	_ StudentRepository      = (*fakeStudentRepo)(nil)
	_ BookingRepository      = (*fakeBookingRepo)(nil)
	_ TransactionRepository  = (*fakeTransactionRepo)(nil)
	_ BusinessUnitRepository = (*fakeUnitRepo)(nil)
	_ UserRepository         = (*fakeUserRepo)(nil)
)
