package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"agrosite/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "https://agrox.app, https://admin.agrox.app")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, []string{"https://agrox.app", "https://admin.agrox.app"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Redis.Window)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Contains(t, cfg.GetDSN(), "sslmode=")
}

func TestValidate_S3NeedsBucket(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{JWTSecret: "secret"},
		Storage: StorageConfig{Driver: StorageDriverS3},
	}
	assert.Error(t, cfg.Validate())

	cfg.Storage.S3Bucket = "agrox-uploads"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "ftp"
	assert.Error(t, cfg.Validate())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rates.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRateSchedule(t *testing.T) {
	path := writeFile(t, `
fallback = "0.08"

[rates]
COFFEE = "0.20"
SOY = "0.175"
`)

	schedule, err := LoadRateSchedule(path)
	require.NoError(t, err)
	require.NotNil(t, schedule.Fallback)
	assert.True(t, decimal.RequireFromString("0.08").Equal(*schedule.Fallback))
	assert.Len(t, schedule.Rates, 2)
	assert.True(t, decimal.RequireFromString("0.20").Equal(schedule.Rates[models.CategoryCoffee]))
	assert.True(t, decimal.RequireFromString("0.175").Equal(schedule.Rates[models.CategorySoy]))
}

func TestLoadRateSchedule_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown category": "[rates]\nWHEAT = \"0.1\"\n",
		"negative rate":    "[rates]\nCOFFEE = \"-0.1\"\n",
		"not a number":     "[rates]\nCOFFEE = \"lots\"\n",
		"unknown key":      "bonus = \"0.5\"\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRateSchedule(writeFile(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadRateSchedule(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
