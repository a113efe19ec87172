// Package db provides database connectivity and migration handling. It owns
// the pgx connection pool used by every feature package and wraps
// golang-migrate for schema migrations from the migrations/ directory.
package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver for migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source for migrate
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver used by migrate's postgres driver

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/config"
)

// NewDBPool establishes the application's PostgreSQL connection pool.
// The pool is verified with a ping before it is handed out; an unreachable
// database is a startup failure, not something to discover on the first request.
func NewDBPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&pool_max_conns=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.MaxSize,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}
	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to database %s", cfg.DBName), err)
	}

	return pool, nil
}

// migrateDSN builds the lib/pq-style DSN that golang-migrate's postgres driver expects.
func migrateDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies pending migrations from migrationsPath. Files follow
// golang-migrate's {version}_{title}.{up,down}.sql naming. A database already
// at the latest version is not an error.
func RunMigrations(cfg *config.PoolConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, migrateDSN(cfg))
	if err != nil {
		return apperror.NewDatabaseError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				log.Printf("Warning: error closing migration source: %v", srcErr)
			}
			if dbErr != nil {
				log.Printf("Warning: error closing migration database instance: %v", dbErr)
			}
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}

	return nil
}
