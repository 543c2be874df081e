package controller

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/config"
)

// Server HTTP-обвязка приложения
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(cfg *config.Config, logger *zap.Logger, h *Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	registerRoutes(e, h)

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

// Start запускает сервер и блокируется до остановки
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr()))
	return s.echo.Start(s.cfg.Addr())
}

// Shutdown аккуратно гасит сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
