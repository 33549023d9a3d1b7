package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Session.TTL != 60*24*time.Hour {
		t.Errorf("expected 60 day session, got %v", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "portal_session" || !cfg.Session.CookieSecure {
		t.Errorf("unexpected cookie settings %+v", cfg.Session)
	}
	if cfg.Redis.Addr != "" || cfg.AMQP.URL != "" {
		t.Error("redis and amqp must be disabled by default")
	}
	if cfg.AMQP.Workers != 4 || cfg.AMQP.QueueSize != 256 {
		t.Errorf("unexpected dispatcher sizing %+v", cfg.AMQP)
	}
	if cfg.IsProduction() {
		t.Error("default env must not be production")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "Production",
		"STORAGE_DRIVER":     "postgres",
		"DATABASE_DSN":       "postgres://u:p@db/portal?sslmode=disable",
		"REDIS_ADDR":         "redis:6379",
		"SESSION_TTL":        "2h",
		"CORS_ALLOW_ORIGINS": "https://a.example,https://b.example",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
	if cfg.Storage.Driver != StoragePostgres || cfg.Storage.DSN == "" {
		t.Errorf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("expected 2h ttl, got %v", cfg.Session.TTL)
	}
	if len(cfg.CORS.AllowOrigins) != 2 {
		t.Errorf("expected two origins, got %v", cfg.CORS.AllowOrigins)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "x", "STORAGE_DRIVER": "mysql"},
		"no workers":     {"JWT_SECRET": "x", "EVENT_WORKERS": "0"},
	}
	for name, env := range cases {
		if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
