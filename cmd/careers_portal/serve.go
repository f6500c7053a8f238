package main

import (
	"context"
	"fmt"

	"github.com/jonathan/careers-portal/internal/cache"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/db"
	"github.com/jonathan/careers-portal/internal/events"
	"github.com/jonathan/careers-portal/internal/ingestion"
	"github.com/jonathan/careers-portal/internal/llm"
	"github.com/jonathan/careers-portal/internal/logger"
	"github.com/jonathan/careers-portal/internal/notify"
	"github.com/jonathan/careers-portal/internal/rendering"
	"github.com/jonathan/careers-portal/internal/server"
	"github.com/jonathan/careers-portal/internal/storage"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP server. Settings come from configs/config.yaml (or --config)
with environment overrides. Redis, MinIO, RabbitMQ, SES and Gemini are optional:
each one left unconfigured or unreachable is replaced by a no-op.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a config file")
	rootCmd.AddCommand(serveCmd)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfig)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx)
		if err != nil {
			return err
		}
		log.Info("migrations applied", map[string]interface{}{"count": len(applied)})
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.Gemini.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()
	if cfg.Gemini.APIKey == "" {
		log.Warn("gemini.api_key not set, generated content uses fallback text", nil)
	}

	extractor, err := ingestion.NewExtractor(ctx, log)
	if err != nil {
		return err
	}

	publisher := connectEvents(cfg, log)
	defer publisher.Close()

	srv, err := server.New(server.Deps{
		Config:    cfg,
		Store:     database,
		Log:       log,
		Writer:    llm.NewWriter(client, "", log),
		Extractor: extractor,
		Files:     connectStorage(ctx, cfg, log),
		Cache:     connectCache(ctx, cfg, log),
		Events:    publisher,
		Mailer:    connectMailer(ctx, cfg, log),
		PDF:       rendering.NewChrome(cfg.Chrome.Timeout),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

func connectCache(ctx context.Context, cfg *config.Config, log logger.Logger) cache.Cache {
	if cfg.Redis.Address == "" {
		return cache.Noop{}
	}
	r := cache.NewRedis(cfg.Redis)
	if err := r.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable, caching disabled", nil)
		_ = r.Close()
		return cache.Noop{}
	}
	return r
}

func connectStorage(ctx context.Context, cfg *config.Config, log logger.Logger) storage.ResumeStore {
	if cfg.MinIO.Endpoint == "" {
		return storage.Inline{}
	}
	m, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		log.WithError(err).Warn("object storage unavailable, storing resumes in the database", nil)
		return storage.Inline{}
	}
	return m
}

func connectEvents(cfg *config.Config, log logger.Logger) events.Publisher {
	if cfg.RabbitMQ.URL == "" {
		return events.Noop{}
	}
	p, err := events.NewAMQP(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		log.WithError(err).Warn("rabbitmq unavailable, events disabled", nil)
		return events.Noop{}
	}
	return p
}

func connectMailer(ctx context.Context, cfg *config.Config, log logger.Logger) notify.Mailer {
	if cfg.Email.From == "" {
		return notify.Noop{}
	}
	m, err := notify.NewSES(ctx, cfg.Email.Region, cfg.Email.From)
	if err != nil {
		log.WithError(err).Warn("email unavailable, acknowledgments disabled", nil)
		return notify.Noop{}
	}
	return m
}
