package main

import (
	"github.com/spf13/cobra"

	"github.com/ffwagency/vacancy-importer/internal/observability"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete unpublished vacancies expired for 60 days",
	Long: `Delete every unpublished vacancy whose due date lies more than 60 days in the
past, together with its source mapping.`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := newMaintainer(cfg, database).Cleanup(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSweep("cleanup", n, "deleted")
	return nil
}
