// Package main is the entry point for the startuplens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/startuplens/startuplens/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "startuplens",
		Short: "Natural-language query service for startup company data",
		Long: `Startuplens answers natural-language questions about startup companies
by translating them to SQL, grounded by a trained knowledge corpus of
schema facts, documentation, and exemplar queries.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(trainCmd())
	cmd.AddCommand(ingestCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
