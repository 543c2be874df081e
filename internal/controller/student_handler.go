package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

type StudentHandler struct {
	students *service.StudentService
	balances *service.BalanceService
}

func NewStudentHandler(students *service.StudentService, balances *service.BalanceService) *StudentHandler {
	return &StudentHandler{students: students, balances: balances}
}

type studentRequest struct {
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Subject    string          `json:"subject"`
	Teacher    string          `json:"teacher"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Balance    decimal.Decimal `json:"balance"`
	BusinessID string          `json:"business_id"`
}

func (r studentRequest) input() service.StudentInput {
	return service.StudentInput{
		Name:       r.Name,
		Code:       r.Code,
		Subject:    r.Subject,
		Teacher:    r.Teacher,
		HourlyRate: r.HourlyRate,
		Balance:    r.Balance,
		BusinessID: r.BusinessID,
	}
}

// List GET /students?business_id=...
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.students.ListByBusiness(c.Request().Context(), businessParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, students)
}

// Get GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	student, err := h.students.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

// Create POST /students
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	student, err := h.students.Register(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, student)
}

// Update PUT /students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	student, err := h.students.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

// Delete DELETE /students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.students.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type topUpRequest struct {
	Hours      decimal.Decimal  `json:"hours"`
	Amount     *decimal.Decimal `json:"amount"`
	Category   string           `json:"category"`
	BusinessID string           `json:"business_id"`
}

// TopUp POST /students/:id/topup
func (h *StudentHandler) TopUp(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	actorID, err := claims.ActorID()
	if err != nil {
		return writeError(c, err)
	}

	var req topUpRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	balance, err := h.balances.TopUp(c.Request().Context(), service.TopUpInput{
		StudentID:  id,
		Hours:      req.Hours,
		Amount:     req.Amount,
		Category:   req.Category,
		BusinessID: req.BusinessID,
		ActorID:    actorID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"balance": balance})
}

type deductRequest struct {
	Hours decimal.Decimal `json:"hours"`
}

// Deduct POST /students/:id/deduct — ручное списание часов
func (h *StudentHandler) Deduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req deductRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	balance, err := h.balances.Deduct(c.Request().Context(), id, req.Hours)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"balance": balance})
}

type adjustBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// AdjustBalance PUT /students/:id/balance
func (h *StudentHandler) AdjustBalance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req adjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	if err := h.balances.Adjust(c.Request().Context(), id, req.Balance); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"balance": req.Balance})
}
