package main

import (
	"github.com/spf13/cobra"

	"github.com/ffwagency/vacancy-importer/internal/observability"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the available vacancy sources",
	Long:  `List every registered vacancy source. The active source is marked with *.`,
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSources(registry.Definitions(), cfg.Source)
	return nil
}
