package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient shell state cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "SSL_MODE",
		"PORT", "OPS_PORT", "GIN_MODE", "SUBMISSION_TIMEOUT",
		"BUDGET_UNITS", "BUDGET_ROUND_COST", "MAX_CONCURRENT_TOURNAMENTS",
		"REPORT_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gauntlet?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.OpsPort)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 10*time.Minute, cfg.Server.SubmissionTimeout)
	assert.Equal(t, int64(0), cfg.Budget.TotalUnits)
	assert.Equal(t, int64(1), cfg.Budget.RoundCost)
	assert.Equal(t, 8, cfg.Budget.MaxConcurrent)
	assert.Equal(t, "./reports", cfg.Report.OutputDir)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db:5432/gauntlet")
	t.Setenv("PORT", "9000")
	t.Setenv("SUBMISSION_TIMEOUT", "90s")
	t.Setenv("BUDGET_UNITS", "500")
	t.Setenv("MAX_CONCURRENT_TOURNAMENTS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.SubmissionTimeout)
	assert.Equal(t, int64(500), cfg.Budget.TotalUnits)
	assert.Equal(t, 2, cfg.Budget.MaxConcurrent)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db:5432/gauntlet")
	t.Setenv("BUDGET_UNITS", "not-a-number")
	t.Setenv("SUBMISSION_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.Budget.TotalUnits)
	assert.Equal(t, 10*time.Minute, cfg.Server.SubmissionTimeout)
}

func TestLoadRejectsZeroConcurrency(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db:5432/gauntlet")
	t.Setenv("MAX_CONCURRENT_TOURNAMENTS", "0")

	_, err := Load()
	require.Error(t, err)
}
