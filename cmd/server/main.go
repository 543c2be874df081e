package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/app"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/config"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/controller"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Применяем миграции на старте
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории и сервисы
	tx := base.NewTxManager(pool)
	studentRepo := repository.NewStudentRepository()
	bookingRepo := repository.NewBookingRepository()
	txnRepo := repository.NewTransactionRepository()
	unitRepo := repository.NewBusinessUnitRepository()
	userRepo := repository.NewUserRepository()

	authService := service.NewAuthService(tx, userRepo, cfg.JWTSecret, logger)
	studentService := service.NewStudentService(tx, studentRepo, bookingRepo, unitRepo, logger)
	balanceService := service.NewBalanceService(tx, studentRepo, txnRepo, unitRepo, logger)
	bookingService := service.NewBookingService(tx, studentRepo, bookingRepo, unitRepo, logger)
	transactionService := service.NewTransactionService(tx, txnRepo, unitRepo, logger)
	reportService := service.NewReportService(tx, studentRepo, bookingRepo, txnRepo, logger)
	calendarService := service.NewCalendarService(tx, bookingRepo, logger)

	server := controller.NewServer(cfg, logger, &controller.Handlers{
		AuthService:  authService,
		Auth:         controller.NewAuthHandler(authService),
		Students:     controller.NewStudentHandler(studentService, balanceService),
		Bookings:     controller.NewBookingHandler(bookingService),
		Transactions: controller.NewTransactionHandler(transactionService),
		Dashboard:    controller.NewDashboardHandler(reportService),
		Calendar:     controller.NewCalendarHandler(calendarService),
		Units:        controller.NewUnitHandler(tx, unitRepo),
	})

	// Останавливаемся по сигналу
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting server", zap.String("environment", cfg.Environment))

	if err := server.Start(); err != nil {
		logger.Info("Server stopped", zap.Error(err))
	}
}
