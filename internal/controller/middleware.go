package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/service"
)

const claimsKey = "claims"

// RequireAuth проверяет Bearer-токен и кладёт claims в контекст.
// Запросы без валидного токена обрываются до любых записей
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "missing authorization header"})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "invalid authorization header"})
			}

			claims, err := auth.ParseToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "invalid token"})
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// currentClaims достаёт claims, положенные RequireAuth
func currentClaims(c echo.Context) (*service.Claims, error) {
	claims, ok := c.Get(claimsKey).(*service.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "unauthenticated"})
	}
	return claims, nil
}
