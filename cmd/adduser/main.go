package main

import (
	"context"
	"flag"
	"log"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/app"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/config"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

// Утилита для заведения сотрудников:
//
//	go run ./cmd/adduser -email admin@example.com -name Admin -password secret -role admin
func main() {
	email := flag.String("email", "", "user email")
	name := flag.String("name", "", "display name")
	password := flag.String("password", "", "password")
	role := flag.String("role", "staff", "role: admin or staff")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	auth := service.NewAuthService(base.NewTxManager(pool), repository.NewUserRepository(), cfg.JWTSecret, logger)

	user, err := auth.CreateUser(ctx, *email, *name, *password, model.UserRole(*role))
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("✅ User created: %s (%s)", user.Email, user.ID)
}
