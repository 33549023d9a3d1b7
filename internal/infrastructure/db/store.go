// Package db selects the storage backend named by configuration and exposes
// its repositories behind the core ports.
package db

import (
	"context"
	"fmt"

	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/config"
	mongostore "github.com/ironbrigade/recruitment-portal/internal/infrastructure/db/mongo"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/db/sqlstore"
)

// Store bundles the repositories of one backend.
type Store struct {
	// Driver is the configured backend name, used to label health checks.
	Driver       string
	Applications ports.ApplicationRepository
	Regiments    ports.RegimentRepository
	Roles        ports.RoleRepository
	// Ping reports whether the backend is reachable.
	Ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.Driver. SQL backends are
// migrated, Mongo collections get their indexes.
func Open(ctx context.Context, cfg config.StorageConfig, mongoCfg config.MongoConfig) (*Store, error) {
	switch cfg.Driver {
	case config.StorageSQLite, config.StoragePostgres:
		sqlDB, err := sqlstore.Open(ctx, sqlstore.Config{Dialect: cfg.Driver, DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:       cfg.Driver,
			Applications: sqlstore.NewApplicationRepository(sqlDB),
			Regiments:    sqlstore.NewRegimentRepository(sqlDB),
			Roles:        sqlstore.NewRoleRepository(sqlDB),
			Ping:         sqlDB.PingContext,
			close:        func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.StorageMongo:
		client, mdb, err := mongostore.Connect(ctx, mongostore.Config{URI: mongoCfg.URI, Database: mongoCfg.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Driver:       cfg.Driver,
			Applications: mongostore.NewApplicationRepository(mdb),
			Regiments:    mongostore.NewRegimentRepository(mdb),
			Roles:        mongostore.NewRoleRepository(mdb),
			Ping:         func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:        client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
