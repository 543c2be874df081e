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
)

type studentFixture struct {
	students *fakeStudentRepo
	bookings *fakeBookingRepo
	svc      *StudentService
}

func newStudentFixture() *studentFixture {
	students := newFakeStudentRepo()
	bookings := newFakeBookingRepo(students)
	units := newFakeUnitRepo("tutoring", "driving")
	svc := NewStudentService(&fakeTxManager{}, students, bookings, units, zap.NewNop())
	return &studentFixture{students: students, bookings: bookings, svc: svc}
}

func TestStudentRegister(t *testing.T) {
	f := newStudentFixture()

	student, err := f.svc.Register(context.Background(), StudentInput{
		Name:       "Anna",
		Subject:    "math",
		HourlyRate: decimal.NewFromInt(70),
		Balance:    decimal.NewFromInt(5),
		BusinessID: "tutoring",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, student.ID)
	assert.True(t, student.IsActive)
	assert.True(t, student.Balance.Equal(decimal.NewFromInt(5)))
}

func TestStudentRegisterValidation(t *testing.T) {
	f := newStudentFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   StudentInput
	}{
		{"empty name", StudentInput{BusinessID: "tutoring", HourlyRate: decimal.NewFromInt(70)}},
		{"negative rate", StudentInput{Name: "A", BusinessID: "tutoring", HourlyRate: decimal.NewFromInt(-1)}},
		{"missing unit", StudentInput{Name: "A", HourlyRate: decimal.NewFromInt(70)}},
		{"pseudo unit all", StudentInput{Name: "A", BusinessID: model.BusinessAll, HourlyRate: decimal.NewFromInt(70)}},
		{"unknown unit", StudentInput{Name: "A", BusinessID: "bakery", HourlyRate: decimal.NewFromInt(70)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestStudentUpdateKeepsBalance(t *testing.T) {
	f := newStudentFixture()
	ctx := context.Background()

	id := f.students.seed(&model.Student{
		Name:       "Anna",
		Balance:    decimal.NewFromInt(7),
		HourlyRate: decimal.NewFromInt(70),
		BusinessID: "tutoring",
	})

	updated, err := f.svc.Update(ctx, id, StudentInput{
		Name:       "Anna S.",
		HourlyRate: decimal.NewFromInt(80),
		Balance:    decimal.NewFromInt(999),
		BusinessID: "tutoring",
	})
	require.NoError(t, err)

	assert.Equal(t, "Anna S.", updated.Name)
	assert.True(t, updated.HourlyRate.Equal(decimal.NewFromInt(80)))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(7)), "balance must not change via Update")
}

func TestStudentDeleteCancelsFutureBookings(t *testing.T) {
	f := newStudentFixture()
	ctx := context.Background()

	id := f.students.seed(&model.Student{
		Name:       "Anna",
		HourlyRate: decimal.NewFromInt(70),
		BusinessID: "tutoring",
	})

	future := time.Now().UTC().Add(48 * time.Hour)
	past := time.Now().UTC().Add(-48 * time.Hour)

	_ = f.bookings.Create(ctx, nil, &model.Booking{
		StudentID: id, StartTime: future, EndTime: future.Add(time.Hour),
		Duration: decimal.NewFromInt(1), Status: model.BookingStatusConfirmed, BusinessID: "tutoring",
	})
	_ = f.bookings.Create(ctx, nil, &model.Booking{
		StudentID: id, StartTime: past, EndTime: past.Add(time.Hour),
		Duration: decimal.NewFromInt(1), Status: model.BookingStatusCompleted, BusinessID: "tutoring",
	})

	require.NoError(t, f.svc.Delete(ctx, id))

	_, err := f.svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := f.bookings.ListByStudent(ctx, nil, id)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	for _, b := range remaining {
		if b.StartTime.After(time.Now().UTC()) {
			assert.Equal(t, model.BookingStatusCancelled, b.Status)
		} else {
			// Прошедшие занятия не трогаем
			assert.Equal(t, model.BookingStatusCompleted, b.Status)
		}
	}

	assert.ErrorIs(t, f.svc.Delete(ctx, id), ErrNotFound)
}
