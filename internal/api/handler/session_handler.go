package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/api/metrics"
	"github.com/ironbrigade/recruitment-portal/internal/api/middleware"
	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// SessionHandler handles sign-in, sign-out and the current-user lookup.
type SessionHandler struct {
	service ports.SessionService
	cookie  CookieConfig
}

func NewSessionHandler(service ports.SessionService, cookie CookieConfig) *SessionHandler {
	return &SessionHandler{service: service, cookie: cookie}
}

type redirectURLResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

type createSessionRequest struct {
	Code string `json:"code"`
}

type meResponse struct {
	domain.User
	IsAdmin bool `json:"isAdmin"`
}

// RedirectURL handles GET /api/oauth/:provider/redirect_url.
//
// @Summary      Get the OAuth authorization URL
// @Tags         sessions
// @Produce      json
// @Param        provider  path      string  true  "OAuth provider (e.g. google)"
// @Success      200       {object}  redirectURLResponse
// @Failure      502       {object}  errorResponse
// @Router       /api/oauth/{provider}/redirect_url [get]
func (h *SessionHandler) RedirectURL(c echo.Context) error {
	url, err := h.service.RedirectURL(c.Request().Context(), c.Param("provider"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirectURLResponse{RedirectURL: url})
}

// Create handles POST /api/sessions.
//
// @Summary      Exchange an OAuth code for a session
// @Description  Sets the session cookie on success.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      createSessionRequest  true  "OAuth authorization code"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.Create(c.Request().Context(), req.Code)
	if err != nil {
		metrics.SessionsTotal.WithLabelValues("create", "error").Inc()
		return err
	}
	metrics.SessionsTotal.WithLabelValues("create", "ok").Inc()

	c.SetCookie(h.sessionCookie(session.Token, int(h.cookie.MaxAge.Seconds())))
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// Me handles GET /api/users/me.
//
// @Summary      Get the signed-in user
// @Tags         sessions
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *SessionHandler) Me(c echo.Context) error {
	session := currentSession(c)
	if session == nil {
		return domain.ErrUnauthorized
	}

	isAdmin, err := h.service.IsAdmin(c.Request().Context(), session.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: session.User, IsAdmin: isAdmin})
}

// Logout handles GET /api/logout.
//
// @Summary      Sign out
// @Description  Revokes the session and clears the session cookie. Always succeeds.
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  successResponse
// @Router       /api/logout [get]
func (h *SessionHandler) Logout(c echo.Context) error {
	if token := middleware.SessionToken(c, h.cookie.Name); token != "" {
		if err := h.service.Logout(c.Request().Context(), token); err != nil {
			metrics.SessionsTotal.WithLabelValues("logout", "error").Inc()
			return err
		}
		metrics.SessionsTotal.WithLabelValues("logout", "ok").Inc()
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *SessionHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteNoneMode
	if !h.cookie.Secure {
		// Browsers drop SameSite=None cookies that are not Secure.
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: sameSite,
		MaxAge:   maxAge,
	}
}
