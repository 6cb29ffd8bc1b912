package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
	"roomlink/pkg/response"
)

const (
	ContextKeyUID  = "uid"
	ContextKeyUser = "user"
)

// ProfileResolver returns the profile for a verified auth user, creating it
// on first sight. Satisfied by usecase.AuthUseCase.
type ProfileResolver interface {
	EnsureProfile(ctx context.Context, uid, email string) (*entity.User, error)
}

type AuthMiddleware struct {
	verifier service.TokenVerifier
	profiles ProfileResolver
}

func NewAuthMiddleware(verifier service.TokenVerifier, profiles ProfileResolver) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		profiles: profiles,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken := BearerToken(c.Request())
		if idToken == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		user, err := m.Resolve(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, err)
		}

		setUser(c, user)
		return next(c)
	}
}

// OptionalAuth sets the user when a valid token is present and carries on
// anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if idToken := BearerToken(c.Request()); idToken != "" {
			if user, err := m.Resolve(c.Request().Context(), idToken); err == nil {
				setUser(c, user)
			}
		}
		return next(c)
	}
}

// Resolve verifies an ID token and loads the caller's profile.
func (m *AuthMiddleware) Resolve(ctx context.Context, idToken string) (*entity.User, error) {
	token, err := m.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		logger.Debug("Token verification failed: %v", err)
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := m.profiles.EnsureProfile(ctx, token.UID, token.Email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setUser(c echo.Context, user *entity.User) {
	c.Set(ContextKeyUID, user.ID)
	c.Set(ContextKeyUser, user)
}

// UserID returns the authenticated caller's ID, or "" for anonymous requests.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyUID).(string)
	return uid
}

// CurrentUser returns the profile loaded by Authenticate or OptionalAuth.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextKeyUser).(*entity.User)
	return user
}
