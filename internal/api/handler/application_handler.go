package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/api/metrics"
	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

// ApplicationHandler handles HTTP requests for recruitment applications.
type ApplicationHandler struct {
	service     ports.ApplicationService
	submitLimit echo.MiddlewareFunc
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// WithSubmitLimit wraps the part of Submit that runs after the form is
// validated, so rejected forms never spend the caller's allowance.
func (h *ApplicationHandler) WithSubmitLimit(mw echo.MiddlewareFunc) *ApplicationHandler {
	h.submitLimit = mw
	return h
}

// Submit handles POST /api/applications.
//
// @Summary      Submit an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      submitApplicationRequest  true  "Application form"
// @Success      201   {object}  submitApplicationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ApplicationsRefusedTotal.WithLabelValues("validation").Inc()
		return err
	}

	if h.submitLimit != nil {
		return h.submitLimit(func(c echo.Context) error { return h.submit(c, req) })(c)
	}
	return h.submit(c, req)
}

func (h *ApplicationHandler) submit(c echo.Context, req submitApplicationRequest) error {
	app, err := h.service.Submit(c.Request().Context(), ports.SubmitApplicationInput{
		Actor:            currentActor(c),
		RobloxUsername:   req.RobloxUsername,
		DiscordUsername:  req.DiscordUsername,
		Age:              req.Age,
		Experience:       req.Experience,
		WhyJoin:          req.WhyJoin,
		Availability:     req.Availability,
		PreviousMilitary: req.PreviousMilitary,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicatePending):
			metrics.ApplicationsRefusedTotal.WithLabelValues("duplicate_pending").Inc()
		case errors.Is(err, domain.ErrValidation):
			metrics.ApplicationsRefusedTotal.WithLabelValues("validation").Inc()
		}
		return err
	}

	metrics.ApplicationsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, submitApplicationResponse{ID: app.ID, Success: true})
}

// List handles GET /api/applications.
//
// @Summary      List all applications, newest first
// @Tags         applications
// @Produce      json
// @Security     SessionCookie
// @Param        status  query     string  false  "Filter by status"  Enums(pending, approved, rejected)
// @Success      200     {array}   domain.Application
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	apps, err := h.service.ListAll(c.Request().Context(), ports.ListApplicationsInput{
		Actor:  currentActor(c),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationList(apps))
}

// Mine handles GET /api/applications/mine.
//
// @Summary      List the caller's own applications
// @Tags         applications
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   domain.Application
// @Failure      401  {object}  errorResponse
// @Router       /api/applications/mine [get]
func (h *ApplicationHandler) Mine(c echo.Context) error {
	apps, err := h.service.ListMine(c.Request().Context(), currentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationList(apps))
}

// Stats handles GET /api/applications/stats.
//
// @Summary      Count applications per status
// @Tags         applications
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  ports.ApplicationStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/applications/stats [get]
func (h *ApplicationHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), currentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// UpdateStatus handles PATCH /api/applications/:id.
//
// @Summary      Approve or reject an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      int               true  "Application id"
// @Param        body  body      setStatusRequest  true  "Review decision"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/applications/{id} [patch]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	app, err := h.service.SetStatus(c.Request().Context(), ports.SetStatusInput{
		Actor:         currentActor(c),
		ApplicationID: id,
		Status:        req.Status,
		AdminNotes:    req.AdminNotes,
	})
	if err != nil {
		return err
	}

	metrics.ApplicationsReviewedTotal.WithLabelValues(string(app.Status)).Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
