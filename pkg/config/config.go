// Package config loads engine configuration from config.yaml with
// environment variable overrides. Secrets come from the environment only.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for oreline-engine. Environment
// variables override YAML values; secrets (PGPASSWORD, LLM_API_KEY) are
// env-only.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // set at load time from the build

	// Optional YAML file extending the table alias and column mistake
	// dictionaries without a rebuild.
	DictionaryOverridesPath string `yaml:"dictionary_overrides" env:"DICTIONARY_OVERRIDES" env-default:""`

	Context  ContextConfig  `yaml:"context"`
	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
}

// ContextConfig controls the per-user context cache.
type ContextConfig struct {
	// TTLMinutes is how long a turn's context stays inheritable by
	// follow-up questions.
	TTLMinutes int `yaml:"ttl_minutes" env:"CONTEXT_TTL_MINUTES" env-default:"5"`
}

// TTL returns the context TTL as a duration.
func (c *ContextConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// LLMConfig configures the fallback language-model client. Absence of
// these settings must not break the deterministic path, only disable the
// fallback.
type LLMConfig struct {
	Provider       string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"` // openai or anthropic
	Endpoint       string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:""`
	Model          string `yaml:"model" env:"LLM_MODEL" env-default:""`
	APIKey         string `yaml:"-" env:"LLM_API_KEY"` // secret, env only
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"30"`
}

// IsAvailable reports whether the fallback path can be used at all.
func (c *LLMConfig) IsAvailable() bool {
	return c.Model != ""
}

// Timeout returns the call-boundary timeout for one LLM request.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig holds the operations-database connection used for live
// schema introspection and query execution. Optional: with no host set
// the engine runs against the static schema dictionary only.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"PGHOST" env-default:""`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"oreline"`
	Password string `yaml:"-" env:"PGPASSWORD"` // secret, env only
	Database string `yaml:"database" env:"PGDATABASE" env-default:"mining_ops"`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConns int32  `yaml:"max_conns" env:"PGMAX_CONNS" env-default:"10"`

	// MigrationsPath points at the schema migration directory. Empty
	// means migrations are managed out of band.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:""`
}

// IsConfigured reports whether a live database connection is available.
func (c *DatabaseConfig) IsConfigured() bool {
	return c.Host != ""
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Load reads config.yaml (when present) with environment overrides. A
// missing file is fine; everything has an env default.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	}

	return cfg, nil
}
