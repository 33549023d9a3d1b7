package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

// Context keys populated by this package.
const (
	ContextSession = "session"
	ContextUser    = "user"
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
)

// SessionAuthenticator verifies a session token.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*ports.Session, error)
}

// SessionToken returns the session token carried by the request, preferring
// the session cookie over an Authorization: Bearer header.
func SessionToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Session authenticates the request and injects the session, user and user
// id into context. Requests without a valid session are rejected with 401.
func Session(auth SessionAuthenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c, cookieName)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			session, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrSessionRevoked) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session has been revoked")
				}
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
				}
				return err
			}

			user := session.User
			c.Set(ContextSession, session)
			c.Set(ContextUser, &user)
			c.Set(ContextUserID, user.ID)

			return next(c)
		}
	}
}
