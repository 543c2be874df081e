package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

type CalendarHandler struct {
	calendar *service.CalendarService
}

func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// Feed GET /calendar/:businessId — подписной iCalendar-фид
func (h *CalendarHandler) Feed(c echo.Context) error {
	businessID := c.Param("businessId")

	feed, err := h.calendar.Feed(c.Request().Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="calendar-%s.ics"`, businessID))

	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
