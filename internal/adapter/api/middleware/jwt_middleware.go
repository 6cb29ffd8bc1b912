package middleware

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/infrastructure/token"
	"roomlink/pkg/errors"
	"roomlink/pkg/response"
)

// TokenValidator is satisfied by token.Manager.
type TokenValidator interface {
	Validate(tokenStr string) (*token.Claims, error)
}

// LegacyAuth guards the /api surface with the HS256 tokens issued at signup/login.
func LegacyAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c.Request())
			if raw == "" {
				return response.Error(c, errors.Unauthorized("No token provided", nil))
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				return response.Error(c, errors.Unauthorized("Invalid token", err))
			}

			c.Set(ContextKeyUID, claims.UserID)
			return next(c)
		}
	}
}
