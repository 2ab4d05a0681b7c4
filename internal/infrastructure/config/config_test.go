package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 0.30, cfg.Fraud.HighReturnRateThreshold)
	assert.Equal(t, 5, cfg.Fraud.RecentReturnsThreshold)
	assert.Equal(t, 500.0, cfg.Fraud.HighValueReturnThreshold)
	assert.Equal(t, 2, cfg.Fraud.SuspiciousReasonsThreshold)
	assert.Equal(t, 7, cfg.Fraud.MassReturnWindowDays)
	assert.Equal(t, 3, cfg.Fraud.MassReturnMinCount)
	assert.Equal(t, 1000, cfg.Fraud.SignalFetchLimit)
	assert.Equal(t, 10000, cfg.Analytics.ExportMaxRecords)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RFA_SERVER_PORT", "9999")
	t.Setenv("RFA_REDIS_DB", "3")
	t.Setenv("RFA_ENVIRONMENT", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
