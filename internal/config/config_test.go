package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "task_scheduler.db", cfg.DatabaseURL)
	assert.Equal(t, "08:00", cfg.ReportTime)
	assert.Equal(t, 7, cfg.TrendDays)
	assert.Zero(t, cfg.ReportInterval)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_url: data/p.db\ntimezone: UTC\ntrend_days: 14\nreport_time: \"21:15\"\n"), 0o644))

	t.Setenv("TELEGRAM_TOKEN", " legacy-token ")
	t.Setenv("PLANNER_TREND_DAYS", "30")
	t.Setenv("REPORT_INTERVAL_HOURS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/p.db", cfg.DatabaseURL)
	assert.Equal(t, "legacy-token", cfg.TelegramToken)
	assert.Equal(t, 30, cfg.TrendDays)
	assert.Equal(t, "21:15", cfg.ReportTime)
	assert.Equal(t, 6*time.Hour, cfg.ReportInterval)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "task_scheduler.db", cfg.DatabaseURL)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("PLANNER_TIMEZONE", "Mars/Olympus")
	_, err := Load("")
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, 3*time.Hour, parseInterval("3"))
	assert.Zero(t, parseInterval("-1"))
	assert.Zero(t, parseInterval("x"))
	assert.Zero(t, parseInterval(""))
}
