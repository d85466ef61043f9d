package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ffwagency/vacancy-importer/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Validate and save new settings",
	Long: `Validate a candidate settings file: the settings rules for the selected source
first, then a live API check with the candidate settings. With --write the
candidate replaces the settings file; the previous file is kept as .bak.`,
	RunE: runConfigure,
}

var (
	configureFrom  string
	configureWrite bool
)

func init() {
	configureCmd.Flags().StringVarP(&configureFrom, "from", "f", "", "Candidate settings file (required)")
	configureCmd.Flags().BoolVar(&configureWrite, "write", false, "Save the candidate settings when valid")

	configureCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(configureFrom)
	if err != nil {
		return fmt.Errorf("failed to read candidate settings: %w", err)
	}
	candidate, err := config.Parse(data)
	if err != nil {
		return err
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	registry, err := newRegistry(candidate)
	if err != nil {
		return err
	}
	id, err := registry.GetActive()
	if err != nil {
		return err
	}
	if err := registry.ValidateSettings(cmd.Context(), id, candidate); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Settings for %q are valid\n", id)
	if !configureWrite {
		return nil
	}

	path := config.ResolvePath(configPath)
	if err := config.SaveAtomic(path, candidate); err != nil {
		return err
	}
	fmt.Fprintf(out, "Settings saved to %s\n", path)
	return nil
}
