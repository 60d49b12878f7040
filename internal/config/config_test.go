package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("LOAN_NEW_BOOK_WINDOW_DAYS", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, 90, cfg.Loan.NewBookWindowDays)
	assert.Equal(t, 5, cfg.Loan.ScarcityThreshold)
	assert.Equal(t, 7, cfg.Loan.ShortPeriodDays)
	assert.Equal(t, 28, cfg.Loan.StandardPeriodDays)
	assert.Equal(t, "@hourly", cfg.Sweep.Schedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "1")
	t.Setenv("LOAN_SCARCITY_THRESHOLD", "3")
	t.Setenv("SWEEP_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 1, cfg.JWT.ExpirationHours)
	assert.Equal(t, 3, cfg.Loan.ScarcityThreshold)
	assert.False(t, cfg.Sweep.Enabled)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "library",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=library sslmode=disable",
		cfg.DSN())
}
