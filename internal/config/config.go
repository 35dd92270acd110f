// Package config assembles the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/common/pagination"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/db"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/tracing"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

// MinJWTSecretLength is the shortest accepted JWT_SECRET, in bytes.
const MinJWTSecretLength = 32

// Config is the full set of settings shared by the api, worker and CLI
// binaries. Each nested section validates itself.
type Config struct {
	Port      int    `env:"PORT"       envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTTTL           time.Duration `env:"JWT_TTL"            envDefault:"24h"`
	PasswordResetTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
	AdminUsernames   []string      `env:"ADMIN_USERNAMES"    envSeparator:","`
	SecurityFile     string        `env:"SECURITY_CONFIG"`

	// SummarizeRateLimit is the sustained number of summarize requests per
	// second allowed for one client.
	SummarizeRateLimit float64       `env:"SUMMARIZE_RATE_LIMIT" envDefault:"0.2"`
	SummarizeBurst     int           `env:"SUMMARIZE_BURST"      envDefault:"3"`
	AuthRateLimit      float64       `env:"AUTH_RATE_LIMIT"      envDefault:"1"`
	AuthBurst          int           `env:"AUTH_BURST"           envDefault:"10"`
	TrustedProxies     []string      `env:"TRUSTED_PROXIES"      envSeparator:","`
	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES"     envDefault:"5242880"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"      envDefault:"150s"`

	CronSchedule string `env:"CRON_SCHEDULE"       envDefault:"@hourly"`
	CronTimezone string `env:"CRON_TIMEZONE"       envDefault:"UTC"`
	WorkerPort   int    `env:"WORKER_METRICS_PORT" envDefault:"9091"`

	DB         db.Config
	Inference  inference.Config
	Pagination pagination.Config
	Summarize  summarize.Config
	Summary    summary.Config
	Tracing    tracing.Config

	// WeakPasswords comes from the security policy file only.
	WeakPasswords []string `env:"-"`
}

// Load reads the process environment, merges the optional security policy
// file and validates the result.
func Load() (Config, error) {
	return load(nil)
}

func load(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.SecurityFile != "" {
		policy, err := LoadSecurityPolicy(cfg.SecurityFile)
		if err != nil {
			return Config{}, err
		}
		cfg.apply(policy)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// apply merges a security policy. Policy values override the JWT lifetime and
// extend the admin and weak password lists.
func (c *Config) apply(p *SecurityPolicy) {
	for _, name := range p.Security.Auth.AdminUsernames {
		if !slices.Contains(c.AdminUsernames, name) {
			c.AdminUsernames = append(c.AdminUsernames, name)
		}
	}
	c.WeakPasswords = append(c.WeakPasswords, p.Security.Auth.WeakPasswords...)
	if h := p.Security.JWT.ExpiryHours; h > 0 {
		c.JWTTTL = time.Duration(h) * time.Hour
	}
}

// Validate checks the settings every binary depends on.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.WorkerPort < 1 || c.WorkerPort > 65535 {
		errs = append(errs, fmt.Errorf("WORKER_METRICS_PORT must be between 1 and 65535, got %d", c.WorkerPort))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if c.PasswordResetTTL <= 0 {
		errs = append(errs, fmt.Errorf("PASSWORD_RESET_TTL must be positive, got %s", c.PasswordResetTTL))
	}
	if c.SummarizeRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARIZE_RATE_LIMIT must be positive, got %g", c.SummarizeRateLimit))
	}
	if c.SummarizeBurst < 1 {
		errs = append(errs, fmt.Errorf("SUMMARIZE_BURST must be at least 1, got %d", c.SummarizeBurst))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %g", c.AuthRateLimit))
	}
	if c.AuthBurst < 1 {
		errs = append(errs, fmt.Errorf("AUTH_BURST must be at least 1, got %d", c.AuthBurst))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}
	if c.RequestTimeout <= c.Summarize.MaxProcessingTime {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed MAX_PROCESSING_TIME (%s)",
			c.RequestTimeout, c.Summarize.MaxProcessingTime))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLER_RATIO must be within [0, 1], got %g", c.Tracing.SampleRatio))
	}
	if err := ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateTimezone(c.CronTimezone); err != nil {
		errs = append(errs, err)
	}
	for _, sub := range []interface{ Validate() error }{c.DB, c.Inference, c.Pagination, c.Summarize, c.Summary} {
		if err := sub.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateServer additionally checks what the HTTP API needs to issue tokens.
func (c Config) ValidateServer() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if isPlaceholderSecret(c.JWTSecret) {
		return errors.New("JWT_SECRET looks like a placeholder value")
	}
	return nil
}

func isPlaceholderSecret(s string) bool {
	lower := strings.ToLower(s)
	for _, bad := range []string{"changeme", "change-me", "your-secret", "placeholder"} {
		if strings.Contains(lower, bad) {
			return true
		}
	}
	return false
}

// Addr returns the API listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// WorkerAddr returns the worker metrics and health listen address.
func (c Config) WorkerAddr() string {
	return fmt.Sprintf(":%d", c.WorkerPort)
}
