package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/config"
)

// Repository encapsulates the pgx connection pool.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a Postgres repository with a configured connection pool.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Repository, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	// Build the DSN through url.URL for correct escaping.
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Postgres.Host, cfg.Postgres.Port),
		Path:   cfg.Postgres.DBName,
	}
	if cfg.Postgres.User != "" || cfg.Postgres.Password != "" {
		u.User = url.UserPassword(cfg.Postgres.User, cfg.Postgres.Password)
	}
	q := u.Query()
	if cfg.Postgres.SSLMode != "" {
		q.Set("sslmode", cfg.Postgres.SSLMode)
	}
	u.RawQuery = q.Encode()
	dsn := u.String()

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	// Route pgx tracing through zerolog at a matching level.
	var tlLevel tracelog.LogLevel
	switch {
	case logger.GetLevel() <= zerolog.TraceLevel:
		tlLevel = tracelog.LogLevelTrace
	case logger.GetLevel() <= zerolog.DebugLevel:
		tlLevel = tracelog.LogLevelDebug
	case logger.GetLevel() <= zerolog.InfoLevel:
		tlLevel = tracelog.LogLevelInfo
	case logger.GetLevel() <= zerolog.WarnLevel:
		tlLevel = tracelog.LogLevelWarn
	default:
		tlLevel = tracelog.LogLevelError
	}
	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newPgxLogger(*logger),
		LogLevel: tlLevel,
	}

	poolConfig.MaxConns = cfg.Postgres.MaxConns
	poolConfig.MinConns = cfg.Postgres.MinConns
	poolConfig.MaxConnLifetime = time.Duration(cfg.Postgres.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = time.Duration(cfg.Postgres.MaxConnIdleTime) * time.Second
	poolConfig.HealthCheckPeriod = time.Duration(cfg.Postgres.HealthCheckPeriod) * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	// Ping with a timeout so startup never hangs on a dead database.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info().
		Str("host", cfg.Postgres.Host).
		Int("port", cfg.Postgres.Port).
		Str("user", cfg.Postgres.User).
		Str("db", cfg.Postgres.DBName).
		Msg("Successfully connected to PostgreSQL")

	return &Repository{pool: pool}, nil
}

// Pool exposes the underlying pgx pool for repository constructors.
func (r *Repository) Pool() *pgxpool.Pool { return r.pool }

// Close releases all pool resources.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
