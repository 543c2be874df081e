package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

type StudentRepository struct{}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// Create создаёт нового ученика
func (r *StudentRepository) Create(ctx context.Context, db base.Querier, student *model.Student) error {
	query := `
		INSERT INTO students (name, code, subject, teacher, hourly_rate, balance, business_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, updated_at
	`

	err := db.QueryRow(
		ctx, query,
		student.Name,
		student.Code,
		student.Subject,
		student.Teacher,
		student.HourlyRate,
		student.Balance,
		student.BusinessID,
	).Scan(&student.ID, &student.IsActive, &student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID получает активного ученика по ID
func (r *StudentRepository) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.Student, error) {
	query := `
		SELECT id, name, code, subject, teacher, hourly_rate, balance, business_id, is_active, created_at, updated_at
		FROM students
		WHERE id = $1 AND is_active
	`

	var student model.Student
	err := db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.Code,
		&student.Subject,
		&student.Teacher,
		&student.HourlyRate,
		&student.Balance,
		&student.BusinessID,
		&student.IsActive,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}

// ListByBusiness получает активных учеников подразделения.
// Для псевдо-юнита "all" фильтр по подразделению не накладывается
func (r *StudentRepository) ListByBusiness(ctx context.Context, db base.Querier, businessID string) ([]*model.Student, error) {
	query := `
		SELECT id, name, code, subject, teacher, hourly_rate, balance, business_id, is_active, created_at, updated_at
		FROM students
		WHERE is_active AND ($1 = 'all' OR business_id = $1)
		ORDER BY name ASC
	`

	rows, err := db.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Code,
			&student.Subject,
			&student.Teacher,
			&student.HourlyRate,
			&student.Balance,
			&student.BusinessID,
			&student.IsActive,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &student)
	}

	return students, nil
}

// Update обновляет анкетные данные ученика (баланс здесь не трогаем)
func (r *StudentRepository) Update(ctx context.Context, db base.Querier, student *model.Student) error {
	query := `
		UPDATE students
		SET name = $1, code = $2, subject = $3, teacher = $4, hourly_rate = $5, business_id = $6, updated_at = now()
		WHERE id = $7 AND is_active
	`

	result, err := db.Exec(
		ctx, query,
		student.Name,
		student.Code,
		student.Subject,
		student.Teacher,
		student.HourlyRate,
		student.BusinessID,
		student.ID,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// AddToBalance атомарно применяет дельту к балансу ученика.
// Именно одна команда UPDATE, а не чтение-изменение-запись:
// конкурентные пополнение и списание не теряют друг друга
func (r *StudentRepository) AddToBalance(ctx context.Context, db base.Querier, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE students
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2 AND is_active
		RETURNING balance
	`

	var balance decimal.Decimal
	err := db.QueryRow(ctx, query, delta, id).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, pgx.ErrNoRows
		}
		return decimal.Zero, fmt.Errorf("add to balance: %w", err)
	}

	return balance, nil
}

// SetBalance выставляет баланс напрямую (административная правка)
func (r *StudentRepository) SetBalance(ctx context.Context, db base.Querier, id uuid.UUID, balance decimal.Decimal) error {
	query := `
		UPDATE students
		SET balance = $1, updated_at = now()
		WHERE id = $2 AND is_active
	`

	result, err := db.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// SoftDelete помечает ученика удалённым. Физически строки учеников
// не удаляем: на них ссылается финансовый журнал
func (r *StudentRepository) SoftDelete(ctx context.Context, db base.Querier, id uuid.UUID) error {
	query := `
		UPDATE students
		SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_active
	`

	result, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
