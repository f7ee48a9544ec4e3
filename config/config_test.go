package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DASHBOARD_PASSWORD", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SESSION_SWEEP_SCHEDULE", "")
	t.Setenv("METRICS_ADDR", "")
	os.Unsetenv("ACTION_DB_PATH")
}

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, DefaultPassword, cfg.Password)
	assert.Equal(t, "data/actions.db", cfg.ActionDBPath)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "*/30 * * * *", cfg.SweepSchedule)
	assert.Equal(t, DefaultTitle, cfg.Presentation.Title)
	assert.Equal(t, DefaultHistogramBins, cfg.Presentation.HistogramBins)
	assert.False(t, cfg.InsightsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("DASHBOARD_PASSWORD", "s3cret")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("ACTION_DB_PATH", "")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("METRICS_ADDR", ":9100")

	yamlPath := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("title: Ops Board\ndocs: |\n  Internal data only.\nhistogram_bins: 20\n"), 0o644))
	t.Setenv("CONFIG_PATH", yamlPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Password)
	assert.True(t, cfg.InsightsEnabled())
	assert.Equal(t, "", cfg.ActionDBPath)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "Ops Board", cfg.Presentation.Title)
	assert.Equal(t, "Internal data only.", cfg.Presentation.Docs)
	assert.Equal(t, 20, cfg.Presentation.HistogramBins)
	assert.Equal(t, DefaultTopDepartments, cfg.Presentation.TopDepartments)
}

func TestLoad_Errors(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)

	setMinimalEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "lots")
	_, err = Load()
	assert.Error(t, err)

	setMinimalEnv(t)
	t.Setenv("SESSION_TTL", "-1h")
	_, err = Load()
	assert.Error(t, err)

	setMinimalEnv(t)
	badYAML := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("title: [unclosed"), 0o644))
	t.Setenv("CONFIG_PATH", badYAML)
	_, err = Load()
	assert.Error(t, err)
}
