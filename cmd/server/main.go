// @title                       Recruitment Portal API
// @version                     1.0
// @description                 Regiment recruitment applications, review workflow and sessions.
// @BasePath                    /
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        portal_session
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ironbrigade/recruitment-portal/internal/api"
	"github.com/ironbrigade/recruitment-portal/internal/api/handler"
	"github.com/ironbrigade/recruitment-portal/internal/api/middleware"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
	"github.com/ironbrigade/recruitment-portal/internal/core/service"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/config"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/db"
	redisstore "github.com/ironbrigade/recruitment-portal/internal/infrastructure/db/redis"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/http/handlers"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/identity"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/queue"
	"github.com/ironbrigade/recruitment-portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "recruitment-portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := db.Open(ctx, cfg.Storage, cfg.Mongo)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "storage", store.Close)
	log.Info().Str("driver", store.Driver).Msg("storage ready")

	checks := map[string]handlers.Check{store.Driver: store.Ping}

	var (
		revocations ports.SessionRevocationStore
		limiter     middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillInterval)
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		revocations = redisstore.NewRevocationStore(rdb)
		limiter = redisstore.NewTokenBucket(rdb, "ratelimit:submit", cfg.RateLimit.Capacity, cfg.RateLimit.RefillInterval)
		checks["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis ready")
	} else {
		log.Warn().Msg("REDIS_ADDR not set: logout revocation disabled, using in-memory rate limiter")
	}
	if !cfg.RateLimit.Enabled {
		limiter = unlimited{}
	}

	publisher, err := newPublisher(cfg.AMQP, log)
	if err != nil {
		return err
	}
	if c, ok := publisher.(io.Closer); ok {
		defer c.Close()
	}
	dispatcher := queue.NewDispatcher(cfg.AMQP.Workers, cfg.AMQP.QueueSize, publisher, logger.Component("queue"))
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	idp := identity.NewClient(identity.Config{
		BaseURL: cfg.Identity.BaseURL,
		APIKey:  cfg.Identity.APIKey,
		Timeout: cfg.Identity.Timeout,
	})

	router := api.NewRouter(api.Deps{
		Applications: service.NewApplicationService(store.Applications, dispatcher, logger.Component("applications")),
		Regiments:    service.NewRegimentService(store.Regiments),
		Sessions: service.NewSessionService(
			idp, store.Roles, revocations, cfg.Session.JWTSecret, cfg.Session.TTL, logger.Component("sessions"),
		),
		Limiter:      limiter,
		HealthChecks: checks,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL,
		},
		AllowOrigins: cfg.CORS.AllowOrigins,
		Logger:       logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}

func newPublisher(cfg config.AMQPConfig, log zerolog.Logger) (ports.EventPublisher, error) {
	if cfg.URL == "" {
		log.Warn().Msg("AMQP_URL not set: workflow events are logged and discarded")
		return queue.NewNopPublisher(logger.Component("events")), nil
	}
	p, err := queue.NewAMQPPublisher(cfg.URL, cfg.Queue, logger.Component("events"))
	if err != nil {
		return nil, err
	}
	log.Info().Str("queue", cfg.Queue).Msg("amqp publisher ready")
	return p, nil
}

func closeWithTimeout(log zerolog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("resource", name).Msg("close failed")
	}
}

// unlimited is the limiter used when submission rate limiting is disabled.
type unlimited struct{}

func (unlimited) Allow(context.Context, string) (bool, time.Duration, error) {
	return true, 0, nil
}
