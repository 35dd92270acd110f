package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
	assert.NoError(t, cfg.Validate())
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantDialect Dialect
		wantDSN     string
		wantErr     bool
	}{
		{
			name:        "sqlite file",
			url:         "sqlite://data/cals.db",
			wantDialect: DialectSQLite,
			wantDSN:     "file:data/cals.db?_foreign_keys=on&_busy_timeout=5000",
		},
		{
			name:        "sqlite memory",
			url:         "sqlite://:memory:",
			wantDialect: DialectSQLite,
			wantDSN:     "file::memory:?_foreign_keys=on&_busy_timeout=5000",
		},
		{
			name:        "postgres",
			url:         "postgres://cals:secret@db:5432/cals?sslmode=disable",
			wantDialect: DialectPostgres,
			wantDSN:     "postgres://cals:secret@db:5432/cals?sslmode=disable",
		},
		{
			name:        "postgresql scheme",
			url:         "postgresql://db/cals",
			wantDialect: DialectPostgres,
			wantDSN:     "postgresql://db/cals",
		},
		{name: "empty sqlite path", url: "sqlite://", wantErr: true},
		{name: "mysql", url: "mysql://db/cals", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, dsn, err := ParseURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "postgres://cals:xxxxx@db/cals", Redact("postgres://cals:secret@db/cals"))
	assert.Equal(t, "postgres://db/cals", Redact("postgres://db/cals"))
	assert.Equal(t, "sqlite://cals.db", Redact("sqlite://cals.db"))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad url", func(c *Config) { c.URL = "redis://x" }},
		{"zero open conns", func(c *Config) { c.MaxOpenConns = 0 }},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "sqlite://:memory:"

	db, dialect, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, DialectSQLite, dialect)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}
