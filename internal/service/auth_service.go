package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
)

const tokenTTL = 24 * time.Hour

// Claims полезная нагрузка наших JWT
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type AuthService struct {
	tx       TxManager
	userRepo UserRepository
	secret   []byte
	logger   *zap.Logger
}

func NewAuthService(tx TxManager, userRepo UserRepository, secret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		tx:       tx,
		userRepo: userRepo,
		secret:   []byte(secret),
		logger:   logger,
	}
}

// Login проверяет пару email/пароль и выдаёт подписанный HS256 токен.
// Неверный email и неверный пароль неразличимы для вызывающего
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, s.tx.DB(), email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	now := time.Now()
	claims := Claims{
		Role: string(user.Role),
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return token, user, nil
}

// ParseToken валидирует токен и возвращает claims
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		// Защита от подмены алгоритма
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", ErrUnauthorized)
	}

	return claims, nil
}

// CreateUser заводит сотрудника (используется админской командой)
func (s *AuthService) CreateUser(ctx context.Context, email, name, password string, role model.UserRole) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, s.tx.DB(), email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user with this email already exists", ErrValidation)
	}

	user := &model.User{
		Email: email,
		Name:  name,
		Role:  role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, s.tx.DB(), user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)

	return user, nil
}

// ActorID извлекает uuid пользователя из claims
func (c *Claims) ActorID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid subject", ErrUnauthorized)
	}
	return id, nil
}
