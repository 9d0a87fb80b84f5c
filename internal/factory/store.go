package factory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/config"
	storepkg "github.com/semi-dlc/flowt-bb/internal/store"
	storepg "github.com/semi-dlc/flowt-bb/internal/store/postgres"
	storelite "github.com/semi-dlc/flowt-bb/internal/store/sqlite"
)

// connectAttempts bounds the startup connection retries.
const connectAttempts = 5

// NewStore opens the listing store selected by cfg.DBDriver and ensures its schema.
// The returned store also implements io.Closer.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return newPostgresStore(ctx, cfg, log)
	case "sqlite":
		return newSQLiteStore(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

func newPostgresStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	dsn := cfg.PostgresDSN
	if dsn == "" {
		return nil, fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", config.EnvPrefix)
	}

	// The database container may still be starting; retry the initial connect.
	var db *sql.DB
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts-1), ctx)
	err := backoff.RetryNotify(func() error {
		var err error
		db, err = storepg.Open(dsn)
		return err
	}, policy, func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("postgres not reachable yet")
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := ensureSchema(ctx, cfg, db, storepg.EnsureSchema, storepg.Bootstrap); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("driver", cfg.DBDriver).Msg("postgres store ready")
	return storepg.NewWithDB(db), nil
}

func newSQLiteStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	db, err := storelite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
	}
	if err := ensureSchema(ctx, cfg, db, storelite.EnsureSchema, storelite.Bootstrap); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
	return storelite.NewWithDB(db), nil
}

type schemaStep func(context.Context, *sql.DB) error

// ensureSchema creates missing tables, then checks that existing ones carry the
// columns the store reads. Both steps share the bootstrap timeout.
func ensureSchema(ctx context.Context, cfg *config.Config, db *sql.DB, create, check schemaStep) error {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout(cfg))
	defer cancel()
	if err := create(ctx, db); err != nil {
		return fmt.Errorf("ensure %s schema: %w", cfg.DBDriver, err)
	}
	if err := check(ctx, db); err != nil {
		return fmt.Errorf("verify %s schema: %w", cfg.DBDriver, err)
	}
	return nil
}

func bootstrapTimeout(cfg *config.Config) time.Duration {
	if cfg.BootstrapTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
}
