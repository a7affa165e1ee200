package main

import (
	"context"
	"fmt"

	"github.com/startuplens/startuplens/infrastructure/etl"
	"github.com/startuplens/startuplens/internal/database"
	"github.com/startuplens/startuplens/internal/log"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var (
		envFile   string
		companies string
		founders  string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load company and founder JSON exports into the database",
		Long: `Load company and founder JSON exports into the companies database,
creating the relational schema if needed. Keyed rows are skipped on
re-ingest, so the command is safe to repeat.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), envFile, companies, founders)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&companies, "companies", "", "Path to the companies JSON export (required)")
	cmd.Flags().StringVar(&founders, "founders", "", "Path to the founder profiles JSON export (required)")
	_ = cmd.MarkFlagRequired("companies")
	_ = cmd.MarkFlagRequired("founders")

	return cmd
}

func runIngest(ctx context.Context, envFile, companiesPath, foundersPath string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	slogger := log.NewLogger(cfg).Slog()

	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	report, err := etl.Ingest(ctx, db, companiesPath, foundersPath, slogger)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Printf("ingested %d companies and %d founders\n", report.Companies, report.Founders)
	return nil
}
