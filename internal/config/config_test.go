package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Generator.MaxPerWindow)
	assert.Equal(t, time.Minute, cfg.Generator.Window)
	assert.Equal(t, 30*time.Second, cfg.Stream.Keepalive)
	assert.Equal(t, []string{"social-events", "notification-commands"}, cfg.Kafka.Topics)
	assert.Equal(t, 30, cfg.TTL.RetentionDays)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONTOS_SERVER_PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CONTOS_STREAM_KEEPALIVE", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "sk-test", cfg.Generator.APIKey)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Second, cfg.Stream.Keepalive)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5433, Name: "n", User: "u", Password: "p"}
	assert.Equal(t, "host=h port=5433 dbname=n user=u password=p sslmode=disable", d.DSN())
}
