package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

// writeError переводит ошибки сервисного слоя в HTTP-ответы.
// Тело всегда {"error": "..."}, текст отдаём как есть
func writeError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		code = http.StatusConflict
	}

	return c.JSON(code, map[string]any{"error": err.Error()})
}
