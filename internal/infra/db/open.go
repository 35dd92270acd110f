package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/resilience/retry"
)

// Dialect selects SQL syntax and the migration set.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrUnsupportedURL is returned for DATABASE_URL values with an unknown scheme.
var ErrUnsupportedURL = errors.New("unsupported database url")

// Config holds the database location and connection pool settings.
type Config struct {
	URL             string        `env:"DATABASE_URL"          envDefault:"sqlite://cals.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"     envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"     envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME"  envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30m"`
}

// DefaultConfig returns the default connection pool configuration.
func DefaultConfig() Config {
	return Config{
		URL:             "sqlite://cals.db",
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Validate checks the URL scheme and pool sizes.
func (c Config) Validate() error {
	if _, _, err := ParseURL(c.URL); err != nil {
		return err
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and %d, got %d", c.MaxOpenConns, c.MaxIdleConns)
	}
	return nil
}

// ParseURL maps DATABASE_URL to a dialect and a driver DSN.
//
//	sqlite://path/to/file.db   -> sqlite, "file:path/to/file.db?_foreign_keys=on&_busy_timeout=5000"
//	sqlite://:memory:          -> sqlite, in-memory database
//	postgres://user@host/db    -> postgres, URL unchanged
func ParseURL(raw string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: sqlite url has no path", ErrUnsupportedURL)
		}
		return DialectSQLite, "file:" + path + "?_foreign_keys=on&_busy_timeout=5000", nil
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		return DialectPostgres, raw, nil
	default:
		return "", "", fmt.Errorf("%w: %q (want sqlite:// or postgres://)", ErrUnsupportedURL, Redact(raw))
	}
}

// Redact hides the password of a postgres URL for logging.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func driverName(d Dialect) string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

// Open creates and configures a connection pool and waits until the
// database answers a ping.
func Open(ctx context.Context, cfg Config) (*sql.DB, Dialect, error) {
	dialect, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driverName(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if dialect == DialectSQLite {
		// one writer at a time
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(cfg.MaxIdleConns, maxOpen))
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("dialect", string(dialect)),
		slog.Int("max_open_conns", maxOpen),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	err = retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping database %s: %w", Redact(cfg.URL), err)
	}

	slog.Info("database connection established successfully")
	return db, dialect, nil
}
