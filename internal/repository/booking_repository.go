package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `id, student_id, start_time, end_time, duration, status, location, meeting_url, notes, business_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Duration,
		&booking.Status,
		&booking.Location,
		&booking.MeetingURL,
		&booking.Notes,
		&booking.BusinessID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, db base.Querier, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (student_id, start_time, end_time, duration, status, location, meeting_url, notes, business_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(
		ctx, query,
		booking.StudentID,
		booking.StartTime,
		booking.EndTime,
		booking.Duration,
		booking.Status,
		booking.Location,
		booking.MeetingURL,
		booking.Notes,
		booking.BusinessID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ListByBusiness получает бронирования подразделения, свежие сверху
func (r *BookingRepository) ListByBusiness(ctx context.Context, db base.Querier, businessID string) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE $1 = 'all' OR business_id = $1
		ORDER BY start_time DESC
	`

	return r.list(ctx, db, query, businessID)
}

// ListByStudent получает бронирования ученика
func (r *BookingRepository) ListByStudent(ctx context.Context, db base.Querier, studentID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY start_time DESC
	`

	return r.list(ctx, db, query, studentID)
}

// ListForCalendar получает неотменённые бронирования подразделения
// вместе с именами учеников для заголовков событий
func (r *BookingRepository) ListForCalendar(ctx context.Context, db base.Querier, businessID string) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.student_id, b.start_time, b.end_time, b.duration, b.status,
		       b.location, b.meeting_url, b.notes, b.business_id, b.created_at, b.updated_at,
		       s.id, s.name, s.subject
		FROM bookings b
		JOIN students s ON s.id = b.student_id
		WHERE b.status <> 'cancelled' AND ($1 = 'all' OR b.business_id = $1)
		ORDER BY b.start_time ASC
	`

	rows, err := db.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for calendar: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		var student model.Student
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Duration,
			&booking.Status,
			&booking.Location,
			&booking.MeetingURL,
			&booking.Notes,
			&booking.BusinessID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&student.ID,
			&student.Name,
			&student.Subject,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Student = &student
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

// ListCompletedInRange получает завершённые бронирования, начавшиеся в окне,
// с текущей ставкой ученика (ставка читается на момент запроса)
func (r *BookingRepository) ListCompletedInRange(ctx context.Context, db base.Querier, businessID string, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.student_id, b.start_time, b.end_time, b.duration, b.status,
		       b.location, b.meeting_url, b.notes, b.business_id, b.created_at, b.updated_at,
		       s.id, s.name, s.hourly_rate
		FROM bookings b
		JOIN students s ON s.id = b.student_id
		WHERE b.status = 'completed'
		  AND b.start_time >= $2 AND b.start_time < $3
		  AND ($1 = 'all' OR b.business_id = $1)
		ORDER BY b.start_time ASC
	`

	rows, err := db.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list completed bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		var student model.Student
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Duration,
			&booking.Status,
			&booking.Location,
			&booking.MeetingURL,
			&booking.Notes,
			&booking.BusinessID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&student.ID,
			&student.Name,
			&student.HourlyRate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Student = &student
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

// Reschedule переносит бронирование. Разрешено только из confirmed:
// guard прямо в условии UPDATE
func (r *BookingRepository) Reschedule(ctx context.Context, db base.Querier, id uuid.UUID, booking *model.Booking) (int64, error) {
	query := `
		UPDATE bookings
		SET start_time = $1, end_time = $2, duration = $3, location = $4, updated_at = now()
		WHERE id = $5 AND status = 'confirmed'
	`

	result, err := db.Exec(ctx, query, booking.StartTime, booking.EndTime, booking.Duration, booking.Location, id)
	if err != nil {
		return 0, fmt.Errorf("reschedule booking: %w", err)
	}

	return result.RowsAffected(), nil
}

// Complete переводит бронирование из confirmed в completed и возвращает
// обновлённую строку из той же команды: часы для списания читаются
// атомарно с переходом, конкурентный перенос не подменит длительность.
// nil без ошибки — бронирования нет либо оно уже не confirmed
func (r *BookingRepository) Complete(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = now()
		WHERE id = $1 AND status = 'confirmed'
		RETURNING ` + bookingColumns

	booking, err := scanBooking(db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("complete booking: %w", err)
	}

	return booking, nil
}

// TransitionStatus переводит статус строго из from в to.
// Ноль затронутых строк — бронирования нет либо оно уже не в from
func (r *BookingRepository) TransitionStatus(ctx context.Context, db base.Querier, id uuid.UUID, from, to model.BookingStatus) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	result, err := db.Exec(ctx, query, to, id, from)
	if err != nil {
		return 0, fmt.Errorf("transition booking status: %w", err)
	}

	return result.RowsAffected(), nil
}

// CancelFutureByStudent отменяет будущие подтверждённые бронирования ученика
// (используется при удалении ученика)
func (r *BookingRepository) CancelFutureByStudent(ctx context.Context, db base.Querier, studentID uuid.UUID, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE student_id = $1 AND status = 'confirmed' AND start_time >= $2
	`

	result, err := db.Exec(ctx, query, studentID, now)
	if err != nil {
		return 0, fmt.Errorf("cancel future bookings: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete удаляет бронирование физически, без отката баланса
func (r *BookingRepository) Delete(ctx context.Context, db base.Querier, id uuid.UUID) (int64, error) {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := db.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *BookingRepository) list(ctx context.Context, db base.Querier, query string, args ...any) ([]*model.Booking, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Duration,
			&booking.Status,
			&booking.Location,
			&booking.MeetingURL,
			&booking.Notes,
			&booking.BusinessID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}
