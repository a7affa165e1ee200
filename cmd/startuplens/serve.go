package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/startuplens/startuplens"
	"github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/infrastructure/api"
	"github.com/startuplens/startuplens/internal/config"
	"github.com/startuplens/startuplens/internal/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                   Server host to bind to (default: 0.0.0.0)
  PORT                   Server port to listen on (default: 8080)
  DATA_DIR               Data directory (default: ~/.startuplens)
  DB_URL                 Companies database URL (default: sqlite:///{data_dir}/companies.db)
  CORPUS_URL             Corpus database URL (default: sqlite:///{data_dir}/corpus.db)
  LOG_LEVEL              Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT             Log format: pretty, json (default: pretty)

  OPENAI_API_KEY         OpenAI API key (required)
  OPENAI_BASE_URL        OpenAI-compatible base URL
  OPENAI_MODEL           Chat model (default: gpt-4-turbo)
  OPENAI_EMBEDDING_MODEL Embedding model (default: text-embedding-3-small)

  RETRIEVAL_LIMIT        Corpus items retrieved per kind (default: 10)
  EXEC_TIMEOUT_SECONDS   Statement execution ceiling (default: 5)
  CORPUS_FILE            External corpus definition YAML (default: embedded)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	slogger := log.NewLogger(cfg).Slog()
	slogger.Info("starting startuplens",
		"version", version,
		"addr", cfg.Addr(),
		"data_dir", cfg.DataDir(),
		"model", cfg.ChatModel(),
	)

	client, err := newClient(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	server := api.NewServer(cfg.Addr(), slogger)
	router := server.Router()

	queryRouter := api.NewQueryRouter(client.Queries, client.Trainer, slogger)
	router.Mount("/", queryRouter.Routes())
	router.Get("/health", healthHandler)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("shutdown failed", slog.Any("error", err))
		}
	}()

	return server.Start()
}

// newClient builds a library client from the resolved configuration.
func newClient(cfg config.AppConfig, logger *slog.Logger) (*startuplens.Client, error) {
	opts := []startuplens.Option{
		startuplens.WithConfig(cfg),
		startuplens.WithLogger(logger),
	}

	if path := cfg.CorpusFile(); path != "" {
		definition, err := corpus.LoadDefinition(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, startuplens.WithCorpusDefinition(definition))
	}

	return startuplens.New(opts...)
}

func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	if host != "" {
		config.WithHost(host)(&cfg)
	}
	if port != 0 {
		config.WithPort(port)(&cfg)
	}
	return cfg
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"status":"ok"}`)
}
