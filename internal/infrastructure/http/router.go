package http

import (
	"github.com/labstack/echo/v4"

	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/http/handlers"
)

// RegisterHealth mounts the liveness and readiness probes. No auth required.
func RegisterHealth(e *echo.Echo, checks map[string]handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
}
