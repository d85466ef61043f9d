package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ffwagency/vacancy-importer/internal/observability"
	"github.com/ffwagency/vacancy-importer/internal/store"
	"github.com/ffwagency/vacancy-importer/internal/store/memory"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import vacancies from the active source",
	Long: `Fetch every vacancy from the source selected in the settings and create or update
one vacancy per vendor posting. With --dry-run the vacancies are written to an
in-memory store and nothing is persisted.`,
	RunE: runImport,
}

var (
	importDryRun  bool
	importVerbose bool
)

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Fetch and map vacancies without writing to the database")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Print a summary of the run")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	var st store.Store
	if importDryRun {
		st = memory.New()
	} else {
		database, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		st = database
	}

	engine, err := newEngine(cfg, registry, st)
	if err != nil {
		return err
	}
	res, err := engine.Execute(ctx)
	if err != nil {
		return err
	}

	if importVerbose {
		observability.NewPrinter(out).PrintImportResult(res)
	}
	if importDryRun {
		fmt.Fprintf(out, "Dry run: %s\n", importMessage(res))
		return nil
	}
	fmt.Fprintln(out, importMessage(res))
	return nil
}
