package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, 5, cfg.Context.TTLMinutes)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CONTEXT_TTL_MINUTES", "10")
	t.Setenv("LLM_MODEL", "test-model")
	t.Setenv("LLM_API_KEY", "secret-key")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.Context.TTL())
	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Equal(t, "secret-key", cfg.LLM.APIKey)
}

func TestLLMAvailability(t *testing.T) {
	cfg := &LLMConfig{}
	assert.False(t, cfg.IsAvailable(), "no model means no fallback")

	cfg.Model = "gpt-4o-mini"
	assert.True(t, cfg.IsAvailable())
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestDatabaseConfig(t *testing.T) {
	cfg := &DatabaseConfig{}
	assert.False(t, cfg.IsConfigured(), "no host means dictionary-only mode")

	cfg = &DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "oreline",
		Password: "hunter2",
		Database: "mining_ops",
		SSLMode:  "require",
	}
	assert.True(t, cfg.IsConfigured())
	assert.Equal(t,
		"host=db.internal port=5432 user=oreline password=hunter2 dbname=mining_ops sslmode=require",
		cfg.ConnectionString())
}
