package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

type DashboardHandler struct {
	reports *service.ReportService
}

func NewDashboardHandler(reports *service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// Overview GET /dashboard?business_id=&from=&to=
func (h *DashboardHandler) Overview(c echo.Context) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return writeError(c, err)
	}

	snapshot, err := h.reports.Overview(c.Request().Context(), businessParam(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// Chart GET /dashboard/chart?business_id=&from=&to=
func (h *DashboardHandler) Chart(c echo.Context) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return writeError(c, err)
	}

	points, err := h.reports.ChartSeries(c.Request().Context(), businessParam(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, points)
}
