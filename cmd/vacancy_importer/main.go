// Package main provides the entry point for the vacancy importer CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/logger"
)

var (
	configPath string
	logJSON    bool
	logLevel   string

	// cfg is loaded before every command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vacancy_importer",
	Short: "Vacancy Importer",
	Long: "Vacancy Importer fetches job vacancies from a recruitment vendor (Emply or HR-Manager), " +
		"keeps one vacancy per vendor posting in PostgreSQL and archives and cleans up expired vacancies.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings file (default $VACANCY_IMPORTER_CONFIG or config.yml)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-json") {
		loaded.Log.JSON = logJSON
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if err := logger.Initialize(loaded.Log.JSON, loaded.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = loaded
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
