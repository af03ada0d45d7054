package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
	persistmemory "github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/memory"
	persistpostgres "github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/postgres"
	persistsqlite "github.com/Apurer/go-gin-storefront/internal/platform/persist/adapters/sqlite"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

// StateStore is a persist.KV that can also drop rows nobody touched for a while.
type StateStore interface {
	persist.KV
	PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// OpenStateStore opens the KV named by PERSIST_DRIVER. The memory driver has
// nothing to purge, so it is returned as a plain KV with a nil StateStore.
func OpenStateStore(ctx context.Context, cfg Config, logger *slog.Logger) (persist.KV, StateStore, func(), error) {
	switch cfg.PersistDriver {
	case DriverSQLite:
		kv, err := persistsqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "open sqlite state store %s", cfg.SQLitePath)
		}
		logger.Info("state store configured with sqlite", slog.String("path", cfg.SQLitePath))
		return kv, kv, func() { _ = kv.Close() }, nil
	case DriverPostgres:
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "connect postgres state store")
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "unwrap postgres connection")
		}
		if err := migrations.Run(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, nil, errors.Wrap(err, "migrate postgres state store")
		}
		logger.Info("state store configured with postgres")
		kv := persistpostgres.NewKV(db)
		return kv, kv, func() { _ = sqlDB.Close() }, nil
	default:
		logger.Warn("PERSIST_DRIVER=memory, owner state is lost on restart")
		return persistmemory.NewKV(), nil, func() {}, nil
	}
}
