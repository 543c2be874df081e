package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

// Handlers все HTTP-обработчики приложения
type Handlers struct {
	AuthService  *service.AuthService
	Auth         *AuthHandler
	Students     *StudentHandler
	Bookings     *BookingHandler
	Transactions *TransactionHandler
	Dashboard    *DashboardHandler
	Calendar     *CalendarHandler
	Units        *UnitHandler
}

func registerRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Публичные маршруты: вход и подписной календарь
	e.POST("/auth/login", h.Auth.Login)
	e.GET("/calendar/:businessId", h.Calendar.Feed)

	// Всё остальное только с валидным токеном
	api := e.Group("", RequireAuth(h.AuthService))

	api.GET("/business-units", h.Units.List)

	api.GET("/students", h.Students.List)
	api.POST("/students", h.Students.Create)
	api.GET("/students/:id", h.Students.Get)
	api.PUT("/students/:id", h.Students.Update)
	api.DELETE("/students/:id", h.Students.Delete)
	api.POST("/students/:id/topup", h.Students.TopUp)
	api.POST("/students/:id/deduct", h.Students.Deduct)
	api.PUT("/students/:id/balance", h.Students.AdjustBalance)

	api.GET("/bookings", h.Bookings.List)
	api.POST("/bookings", h.Bookings.Create)
	api.GET("/bookings/:id", h.Bookings.Get)
	api.PUT("/bookings/:id", h.Bookings.Reschedule)
	api.POST("/bookings/:id/complete", h.Bookings.Complete)
	api.POST("/bookings/:id/cancel", h.Bookings.Cancel)
	api.DELETE("/bookings/:id", h.Bookings.Delete)

	api.GET("/transactions", h.Transactions.List)
	api.POST("/transactions", h.Transactions.Create)
	api.PUT("/transactions/:id", h.Transactions.Update)
	api.DELETE("/transactions/:id", h.Transactions.Delete)

	api.GET("/dashboard", h.Dashboard.Overview)
	api.GET("/dashboard/chart", h.Dashboard.Chart)
}
