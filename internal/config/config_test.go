package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_NAME", "PORT", "APP_ENV", "BCRYPT_COST", "SEED_ON_START", "SESSION_EXPIRATION_HOURS", "BOOTSTRAP_RETRY_DELAY_SECONDS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "root:@tcp(localhost:3306)/hospital_db?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.DSN)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.Bootstrap.SeedOnStart)
	assert.Equal(t, 2*time.Second, cfg.Bootstrap.RetryDelay)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_DatabaseURLOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://hospital:secret@db:5432/hospital")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://hospital:secret@db:5432/hospital", cfg.Database.DSN)
}

func TestLoadConfig_InvalidInteger(t *testing.T) {
	t.Setenv("SESSION_EXPIRATION_HOURS", "twelve")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "SESSION_EXPIRATION_HOURS")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HOSPITAL_NAME=Dotenv General\n"), 0o600))
	os.Unsetenv("HOSPITAL_NAME")
	t.Cleanup(func() { os.Unsetenv("HOSPITAL_NAME") })

	require.NoError(t, LoadDotEnv(path))
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Dotenv General", cfg.HospitalName)
}
