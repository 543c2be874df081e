package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

type UnitHandler struct {
	tx    service.TxManager
	units service.BusinessUnitRepository
}

func NewUnitHandler(tx service.TxManager, units service.BusinessUnitRepository) *UnitHandler {
	return &UnitHandler{tx: tx, units: units}
}

// List GET /business-units
func (h *UnitHandler) List(c echo.Context) error {
	units, err := h.units.List(c.Request().Context(), h.tx.DB())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, units)
}
