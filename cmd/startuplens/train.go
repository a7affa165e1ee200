package main

import (
	"context"
	"fmt"

	"github.com/startuplens/startuplens/internal/log"
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Rebuild the knowledge corpus",
		Long: `Rebuild the knowledge corpus from the live database schema and the
corpus definition. Rebuilding is idempotent: items are identified by
content, so repeating a rebuild with unchanged inputs is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd.Context(), envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runTrain(ctx context.Context, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	slogger := log.NewLogger(cfg).Slog()

	client, err := newClient(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	report, err := client.Trainer.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fmt.Printf("corpus rebuilt: %d items\n", report.ItemsTrained())
	return nil
}
