package db

import (
	"context"
	"fmt"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"feedback-bot/internal/config"
	"feedback-bot/internal/repository"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// NewSQLite abre el archivo SQLite con una sola conexion; SQLite serializa escrituras.
func NewSQLite(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// OpenFeedbackStore elige el backend segun STORE_DRIVER y deja el esquema listo.
// El cierre devuelto libera las conexiones abiertas.
func OpenFeedbackStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.FeedbackRepository, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = Ping(pingCtx, pool)
		cancel()
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		repo := repository.NewPgFeedbackRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("feedback store ready", zap.String("driver", cfg.StoreDriver))
		return repo, pool.Close, nil

	case config.StoreDriverSQLite:
		gdb, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo := repository.NewGormFeedbackRepository(gdb)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		log.Info("feedback store ready", zap.String("driver", cfg.StoreDriver), zap.String("path", cfg.SQLitePath))
		return repo, closeFn, nil

	case config.StoreDriverMemory:
		log.Warn("feedback store is in memory; records are lost on restart")
		return repository.NewMemoryFeedbackRepository(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
