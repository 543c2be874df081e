package controller

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	StudentID  uuid.UUID       `json:"student_id"`
	StartTime  string          `json:"start_time"`
	Timezone   string          `json:"timezone"`
	Duration   decimal.Decimal `json:"duration"`
	BusinessID string          `json:"business_id"`
	Location   string          `json:"location"`
	MeetingURL string          `json:"meeting_url"`
	Notes      string          `json:"notes"`
}

type rescheduleRequest struct {
	StartTime string          `json:"start_time"`
	Timezone  string          `json:"timezone"`
	Duration  decimal.Decimal `json:"duration"`
	Location  string          `json:"location"`
}

// List GET /bookings?business_id=... либо ?student_id=...
func (h *BookingHandler) List(c echo.Context) error {
	if v := c.QueryParam("student_id"); v != "" {
		studentID, err := uuid.Parse(v)
		if err != nil {
			return writeError(c, service.ErrValidation)
		}
		bookings, err := h.bookings.ListByStudent(c.Request().Context(), studentID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, bookings)
	}

	bookings, err := h.bookings.ListByBusiness(c.Request().Context(), businessParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Get GET /bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	booking, err := h.bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Create POST /bookings
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	booking, err := h.bookings.Create(c.Request().Context(), service.CreateBookingInput{
		StudentID:  req.StudentID,
		StartTime:  req.StartTime,
		Timezone:   req.Timezone,
		Duration:   req.Duration,
		BusinessID: req.BusinessID,
		Location:   req.Location,
		MeetingURL: req.MeetingURL,
		Notes:      req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// Reschedule PUT /bookings/:id
func (h *BookingHandler) Reschedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrValidation)
	}

	booking, err := h.bookings.Reschedule(c.Request().Context(), id, service.RescheduleInput{
		StartTime: req.StartTime,
		Timezone:  req.Timezone,
		Duration:  req.Duration,
		Location:  req.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Complete POST /bookings/:id/complete
func (h *BookingHandler) Complete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	booking, err := h.bookings.Complete(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel POST /bookings/:id/cancel
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.bookings.Cancel(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete DELETE /bookings/:id
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.bookings.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
