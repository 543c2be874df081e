package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

func newTestContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBusinessParam(t *testing.T) {
	assert.Equal(t, "tutoring", businessParam(newTestContext("/?business_id=tutoring")))
	assert.Equal(t, model.BusinessAll, businessParam(newTestContext("/")))
}

func TestReportWindow(t *testing.T) {
	from, to, err := reportWindow(newTestContext("/?from=2026-02-01&to=2026-02-28"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	// Весь последний день входит в окно
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = reportWindow(newTestContext("/?from=bogus"))
	assert.ErrorIs(t, err, service.ErrValidation)

	// Перевёрнутое окно — ошибка, а не пустая выборка
	_, _, err = reportWindow(newTestContext("/?from=2026-03-01&to=2026-02-01"))
	assert.ErrorIs(t, err, service.ErrValidation)

	// Совпадающие границы — валидное однодневное окно
	_, _, err = reportWindow(newTestContext("/?from=2026-02-10&to=2026-02-10"))
	require.NoError(t, err)

	// Без параметров — текущий календарный месяц
	from, to, err = reportWindow(newTestContext("/"))
	require.NoError(t, err)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, from.AddDate(0, 1, 0), to)
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	_, err := pathID(c, "id")
	assert.ErrorIs(t, err, service.ErrValidation)
}
