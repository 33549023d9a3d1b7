package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminChecker reports whether a user holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin looks the authenticated user up in the role store once per
// request and rejects non-admins with 403. It must run after Session.
func RequireAdmin(checker AdminChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(ContextUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			isAdmin, ok := c.Get(ContextIsAdmin).(bool)
			if !ok {
				var err error
				isAdmin, err = checker.IsAdmin(c.Request().Context(), userID)
				if err != nil {
					return err
				}
				c.Set(ContextIsAdmin, isAdmin)
			}
			if !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
