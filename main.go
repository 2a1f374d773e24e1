package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/config"
	"github.com/oreline/oreline-engine/pkg/database"
	"github.com/oreline/oreline-engine/pkg/followup"
	"github.com/oreline/oreline-engine/pkg/handlers"
	"github.com/oreline/oreline-engine/pkg/intent"
	"github.com/oreline/oreline-engine/pkg/llm"
	"github.com/oreline/oreline-engine/pkg/logging"
	"github.com/oreline/oreline-engine/pkg/middleware"
	"github.com/oreline/oreline-engine/pkg/router"
	enginesql "github.com/oreline/oreline-engine/pkg/sql"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("llm_fallback", cfg.LLM.IsAvailable()),
		zap.Bool("database", cfg.Database.IsConfigured()))

	ctx := context.Background()

	// Schema dictionary: static mining schema by default, replaced by a
	// live introspection when a database is configured, extended by the
	// overrides file either way.
	dict := enginesql.DefaultDictionary()
	var db *database.DB
	if cfg.Database.IsConfigured() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err = database.NewConnection(connectCtx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConns,
		})
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if cfg.Database.MigrationsPath != "" {
			if err := database.RunMigrations(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
				logger.Fatal("Failed to apply migrations", zap.Error(err))
			}
		}

		schema, err := db.IntrospectSchema(ctx)
		if err != nil {
			logger.Fatal("Failed to introspect schema", zap.Error(err))
		}
		dict = enginesql.NewDictionary(schema)
		logger.Info("Schema introspected", zap.Int("tables", len(schema)))
	}
	if cfg.DictionaryOverridesPath != "" {
		if err := dict.LoadOverrides(cfg.DictionaryOverridesPath); err != nil {
			logger.Fatal("Failed to load dictionary overrides",
				zap.String("path", cfg.DictionaryOverridesPath), zap.Error(err))
		}
	}

	llmClient := buildLLMClient(cfg, dict, logger)

	cache := followup.NewContextCache(cfg.Context.TTL())
	engine := router.New(router.Config{
		Classifier: intent.New(logger),
		Detector:   followup.NewDetector(logger),
		Cache:      cache,
		Dictionary: dict,
		LLMClient:  llmClient,
		LLMTimeout: cfg.LLM.Timeout(),
		Logger:     logger,
	})

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(dict, logger).RegisterRoutes(mux)
	handlers.NewAskHandler(engine, cache, db, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger.Named("http"))(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting oreline-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// buildLLMClient constructs the fallback client for the configured
// provider, or returns nil when the fallback is not configured. A nil
// client only disables the fallback path; routing still works.
func buildLLMClient(cfg *config.Config, dict *enginesql.Dictionary, logger *zap.Logger) llm.Client {
	if !cfg.LLM.IsAvailable() {
		logger.Info("LLM fallback disabled; deterministic routing only")
		return nil
	}

	schema := make(map[string][]string)
	for _, table := range dict.Tables() {
		schema[table] = dict.Columns(table)
	}
	systemPrompt := llm.BuildSystemPrompt(schema)

	switch cfg.LLM.Provider {
	case "anthropic":
		client, err := llm.NewAnthropicClient(cfg.LLM.APIKey, cfg.LLM.Model, systemPrompt, logger)
		if err != nil {
			logger.Warn("Failed to build Anthropic client; fallback disabled", zap.Error(err))
			return nil
		}
		return client
	default:
		client, err := llm.NewOpenAIClient(&llm.OpenAIConfig{
			Endpoint:     cfg.LLM.Endpoint,
			Model:        cfg.LLM.Model,
			APIKey:       cfg.LLM.APIKey,
			SystemPrompt: systemPrompt,
		}, logger)
		if err != nil {
			logger.Warn("Failed to build OpenAI client; fallback disabled", zap.Error(err))
			return nil
		}
		return client
	}
}
