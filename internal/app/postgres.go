package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	goose "github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/tradewindow/config"
	"github.com/guttosm/tradewindow/db/migrations"
	"github.com/guttosm/tradewindow/internal/logger"
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// retryInterval is the first wait between connection attempts; overridden in tests.
var retryInterval = 500 * time.Millisecond

// InitPostgres opens a PostgreSQL connection pool and waits until it answers.
//
// Behavior:
//   - Constructs a DSN from cfg.Postgres.
//   - Opens a database handle with sql.Open.
//   - Pings with exponential backoff, at most cfg.Postgres.ConnectRetries
//     attempts (minimum 1), so the service survives a database that starts
//     slower than it does.
//
// Returns:
//   - *sql.DB: an open database connection pool (safe for concurrent use).
//   - error: if opening fails or every ping attempt fails.
//
// Example usage:
//
//	db, err := app.InitPostgres(ctx, config.AppConfig)
//	if err != nil {
//	    log.Fatalf("failed to connect: %v", err)
//	}
//	defer db.Close()
func InitPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	// Initialize database handle (does not establish a real connection yet)
	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	log := logger.Component("postgres")

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInterval
	policy.MaxInterval = retryInterval * 10

	ping := func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("postgres not ready")
	}

	_, err = backoff.Retry(ctx, ping,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(max(1, cfg.Postgres.ConnectRetries))),
		backoff.WithNotify(notify))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.DBName).Msg("postgres connected")
	return db, nil
}

// postgresOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres

// migrator applies the embedded schema; overridden in tests.
var migrator = runMigrations

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{l: logger.Component("migrations")})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	l *zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
