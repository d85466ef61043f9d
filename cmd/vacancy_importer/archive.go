package main

import (
	"github.com/spf13/cobra"

	"github.com/ffwagency/vacancy-importer/internal/observability"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Unpublish vacancies past their due date",
	Long: `Unpublish every published vacancy whose due date lies more than archive.minutes
minutes in the past.`,
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := newMaintainer(cfg, database).Archive(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSweep("archive", n, "unpublished")
	return nil
}
