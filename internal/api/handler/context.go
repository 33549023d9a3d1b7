package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/api/middleware"
	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

// currentActor builds the caller identity injected by the middleware. An
// empty actor means the request is anonymous; the service layer rejects it.
func currentActor(c echo.Context) domain.Actor {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	isAdmin, _ := c.Get(middleware.ContextIsAdmin).(bool)
	return domain.Actor{UserID: userID, IsAdmin: isAdmin}
}

func currentSession(c echo.Context) *ports.Session {
	session, _ := c.Get(middleware.ContextSession).(*ports.Session)
	return session
}
