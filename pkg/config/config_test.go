package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "smart-agriculture", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "agri_db", cfg.Database.DBName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "notifications", cfg.Kafka.NotificationTopic)

	assert.Equal(t, 120*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, time.Hour, cfg.Auth.VerifyTokenTTL)
	assert.Equal(t, 120*time.Hour, cfg.Auth.ReferenceTokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 500*time.Millisecond, cfg.Auth.CacheTimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `APP_NAME=agrilink-test
SERVER_PORT=9090
DATABASE_HOST=db.internal
JWT_SECRET=file-secret
KAFKA_BROKERS=broker1:9092,broker2:9092
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := LoadWithPath(envFile)
	require.NoError(t, err)

	assert.Equal(t, "agrilink-test", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", DBName: "agri_db", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=agri_db sslmode=disable",
		d.DSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		return cfg
	}

	t.Run("default config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing app name", func(t *testing.T) {
		cfg := valid()
		cfg.App.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("default jwt secret rejected in production", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive token ttl", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.TokenTTL = 0
		assert.Error(t, cfg.Validate())
	})
}
