package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ironbrigade/recruitment-portal/docs"
	"github.com/ironbrigade/recruitment-portal/internal/api/handler"
	"github.com/ironbrigade/recruitment-portal/internal/api/middleware"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
	infrahttp "github.com/ironbrigade/recruitment-portal/internal/infrastructure/http"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Applications ports.ApplicationService
	Regiments    ports.RegimentService
	Sessions     ports.SessionService
	// Limiter guards application submission.
	Limiter      middleware.Limiter
	HealthChecks map[string]handlers.Check
	Cookie       handler.CookieConfig
	AllowOrigins []string
	Logger       zerolog.Logger

	// Default to the global prometheus registry when nil.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	if len(deps.AllowOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     deps.AllowOrigins,
			AllowCredentials: true,
		}))
	}
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "recruitment",
		Registerer: registerer,
	}))

	// --- Handlers ---
	applicationHandler := handler.NewApplicationHandler(deps.Applications).
		WithSubmitLimit(middleware.RateLimit(deps.Limiter, deps.Logger))
	regimentHandler := handler.NewRegimentHandler(deps.Regiments)
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Cookie)

	requireSession := middleware.Session(deps.Sessions, deps.Cookie.Name)
	requireAdmin := middleware.RequireAdmin(deps.Sessions)

	// --- Operational routes (no auth required) ---
	infrahttp.RegisterHealth(e, deps.HealthChecks)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Sessions ---
	api.GET("/oauth/:provider/redirect_url", sessionHandler.RedirectURL)
	api.POST("/sessions", sessionHandler.Create)
	api.GET("/users/me", sessionHandler.Me, requireSession)
	api.GET("/logout", sessionHandler.Logout)

	// --- Regiments ---
	api.GET("/regiments", regimentHandler.List)

	// --- Applications ---
	apps := api.Group("/applications", requireSession)
	apps.POST("", applicationHandler.Submit)
	apps.GET("/mine", applicationHandler.Mine)
	apps.GET("", applicationHandler.List, requireAdmin)
	apps.GET("/stats", applicationHandler.Stats, requireAdmin)
	apps.PATCH("/:id", applicationHandler.UpdateStatus, requireAdmin)

	return e
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
