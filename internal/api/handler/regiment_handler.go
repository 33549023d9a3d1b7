package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

type RegimentHandler struct {
	service ports.RegimentService
}

func NewRegimentHandler(service ports.RegimentService) *RegimentHandler {
	return &RegimentHandler{service: service}
}

// List handles GET /api/regiments.
//
// @Summary      List regiments ordered by name
// @Tags         regiments
// @Produce      json
// @Success      200  {array}   domain.Regiment
// @Failure      500  {object}  errorResponse
// @Router       /api/regiments [get]
func (h *RegimentHandler) List(c echo.Context) error {
	regiments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if regiments == nil {
		regiments = []*domain.Regiment{}
	}
	return c.JSON(http.StatusOK, regiments)
}
