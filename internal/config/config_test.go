package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "lms")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "lms")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "dev-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "lms-platform", cfg.Name)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.Quiz.CacheTTL)
	assert.Equal(t, "quiz:events", cfg.Quiz.EventsChannel)
	assert.Equal(t, int64(8<<20), cfg.Quiz.MaxPayloadBytes)
	assert.Equal(t, time.Hour, cfg.Security.AccessTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t,
		"host=localhost port=5432 user=lms password=secret dbname=lms sslmode=disable pool_max_conns=10",
		cfg.Postgres.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("QUIZ_CACHE_TTL", "30s")
	t.Setenv("QUIZ_WARM_QUEUE_SIZE", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://lms.example.com")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Quiz.CacheTTL)
	assert.Equal(t, 8, cfg.Quiz.WarmQueueSize)
	assert.Equal(t, []string{"https://lms.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

func TestLoadPostgres(t *testing.T) {
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "lms")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "lms")

	pg, err := LoadPostgres()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=lms password=secret dbname=lms sslmode=disable", pg.ConnString())
}
