package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Addyshimla/splashark/internal/api"
	"github.com/Addyshimla/splashark/internal/bot/graph"
	"github.com/Addyshimla/splashark/internal/bot/model"
	"github.com/Addyshimla/splashark/internal/core"
	"github.com/Addyshimla/splashark/internal/faq"
	logx "github.com/Addyshimla/splashark/pkg/logger"
	pkgredis "github.com/Addyshimla/splashark/pkg/redis"
)

// FAQConfig selects where the FAQ corpus is loaded from at startup.
type FAQConfig struct {
	Source string `envconfig:"FAQ_SOURCE" default:"seed"`
	Key    string `envconfig:"FAQ_REDIS_KEY" default:"faq:records"`
}

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Host        string `envconfig:"HOST" default:"0.0.0.0"`
	Port        int    `envconfig:"PORT" default:"8000"`
	StaticDir   string `envconfig:"STATIC_DIR" default:"static"`

	// LLM providers
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// Workflow configs
	Chat   model.ChatModelConfig
	Image  model.ImageModelConfig
	Prompt model.PromptConfig

	// Infrastructure
	FAQ   FAQConfig
	Redis pkgredis.Config
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	corpus, err := loadCorpus(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to load FAQ corpus")
	}
	logx.Info().Int("records", len(corpus)).Str("source", cfg.FAQ.Source).Msg("FAQ corpus loaded")

	runner, err := graph.BuildChatGraph(ctx, graph.Config{
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		ChatModel:     cfg.Chat,
		ImageModel:    cfg.Image,
		Prompt:        cfg.Prompt,
		Corpus:        corpus,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build workflow graph")
	}

	router := api.NewRouter(api.NewHandler(runner), env, cfg.StaticDir)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: router,
	}

	go func() {
		logx.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Forced shutdown")
	}
	logx.Info().Msg("Server stopped")
}

// loadCorpus materializes the FAQ corpus once at startup. The workflow only
// ever sees the resulting immutable slice.
func loadCorpus(ctx context.Context, cfg AppConfig) (faq.Corpus, error) {
	switch cfg.FAQ.Source {
	case "redis":
		if cfg.Redis.URL == "" {
			return nil, fmt.Errorf("FAQ_SOURCE=redis requires REDIS_URL")
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			return nil, fmt.Errorf("initialise redis client: %w", err)
		}
		defer rdb.Close()
		return faq.NewRedisSource(rdb, cfg.FAQ.Key).Load(ctx)
	default:
		return faq.SeedSource{}.Load(ctx)
	}
}
