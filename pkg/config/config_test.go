package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Export.PageSize)
	assert.Equal(t, "es", cfg.Export.Locale)
	assert.Equal(t, "a4", cfg.Export.PaperSize)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR se usa el bloqueo en memoria")
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.DB.InMemory())
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.True(t, cfg.DB.PreferIPv4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("S3_BUCKET", "adjuntos")
	t.Setenv("S3_USE_PATH_STYLE", "false")
	t.Setenv("LIST_PAGE_SIZE", "no-es-numero")
	t.Setenv("DB_MIN_CONNS", "0")
	t.Setenv("DB_PREFER_IPV4", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, 10, cfg.Export.PageSize, "valor inválido cae al default")
	assert.Equal(t, 0, cfg.DB.MinConns)
	assert.False(t, cfg.DB.PreferIPv4)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRejectsMemoryDriver(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("DB_DRIVER", "memory")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_InMemory(t *testing.T) {
	assert.True(t, config.DBConfig{Driver: "MEMORY"}.InMemory())
	assert.False(t, config.DBConfig{Driver: "postgres"}.InMemory())
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "dental", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/dental?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
