package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create создаёт нового сотрудника
func (r *UserRepository) Create(ctx context.Context, db base.Querier, user *model.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := db.QueryRow(
		ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByEmail получает сотрудника по email
func (r *UserRepository) GetByEmail(ctx context.Context, db base.Querier, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// GetByID получает сотрудника по ID
func (r *UserRepository) GetByID(ctx context.Context, db base.Querier, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}
