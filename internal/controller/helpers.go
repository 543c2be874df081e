package controller

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

const dateLayout = "2006-01-02"

// pathID парсит uuid из path-параметра
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", service.ErrValidation, name)
	}
	return id, nil
}

// businessParam подразделение из query, по умолчанию "all"
func businessParam(c echo.Context) string {
	if b := c.QueryParam("business_id"); b != "" {
		return b
	}
	return model.BusinessAll
}

// reportWindow окно отчёта из query (?from=YYYY-MM-DD&to=YYYY-MM-DD).
// По умолчанию текущий календарный месяц; верхняя граница исключающая
func reportWindow(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if v := c.QueryParam("from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid from date", service.ErrValidation)
		}
		from = parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid to date", service.ErrValidation)
		}
		// Границу делаем исключающей: весь день "to" входит в окно
		to = parsed.AddDate(0, 0, 1)
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must not be after to", service.ErrValidation)
	}

	return from, to, nil
}
