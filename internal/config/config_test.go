package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 600, cfg.Server.RateLimit)
	assert.Equal(t, 14, cfg.Cadence.HighDays)
	assert.Equal(t, 30, cfg.Cadence.MedDays)
	assert.Equal(t, 45, cfg.Cadence.LowDays)
	assert.Equal(t, "", cfg.Input.Sheet)
	assert.Equal(t, 30*time.Second, cfg.Input.FetchTimeout)
	assert.Equal(t, 3, cfg.Input.MaxRetries)
	assert.Equal(t, "None", cfg.Export.Template)
	assert.Equal(t, "prospects_filtered.csv", cfg.Export.CSVName)
	assert.Equal(t, "prospects_filtered.xlsx", cfg.Export.XLSXName)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: json
server:
  port: 9090
cadence:
  high_days: 10
input:
  sheet: Leads
  fetch_timeout: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Cadence.HighDays)
	assert.Equal(t, "Leads", cfg.Input.Sheet)
	assert.Equal(t, 5*time.Second, cfg.Input.FetchTimeout)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Cadence.MedDays)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
cadence:
  low_days: 60
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PROSPECT_CADENCE_LOW_DAYS", "90")
	t.Setenv("PROSPECT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, 90, cfg.Cadence.LowDays)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(origDir)
		os.Unsetenv("PROSPECT_SERVER_PORT")
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROSPECT_SERVER_PORT=3000\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Cadence = CadenceConfig{HighDays: 14, MedDays: 30, LowDays: 45}
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateExplore(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("explore"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	// Port is only checked when serving.
	assert.NoError(t, cfg.Validate("explore"))
}

func TestValidateServe_NegativeRateLimit(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.RateLimit = -1

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.rate_limit")
}

func TestValidateExplore_NegativeRetries(t *testing.T) {
	cfg := validDefaults()
	cfg.Input.MaxRetries = -1

	err := cfg.Validate("explore")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input.max_retries")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateCadenceBounds(t *testing.T) {
	tests := []struct {
		name    string
		cadence CadenceConfig
		wantErr string
	}{
		{"defaults", CadenceConfig{HighDays: 14, MedDays: 30, LowDays: 45}, ""},
		{"lower bounds", CadenceConfig{HighDays: 7, MedDays: 7, LowDays: 7}, ""},
		{"upper bounds", CadenceConfig{HighDays: 60, MedDays: 90, LowDays: 120}, ""},
		{"high too small", CadenceConfig{HighDays: 6, MedDays: 30, LowDays: 45}, "cadence.high_days must be >= 7"},
		{"med too large", CadenceConfig{HighDays: 14, MedDays: 91, LowDays: 45}, "cadence.med_days must be <= 90"},
		{"low too large", CadenceConfig{HighDays: 14, MedDays: 30, LowDays: 121}, "cadence.low_days must be <= 120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cadence.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
