package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkAPICmd = &cobra.Command{
	Use:   "check-api",
	Short: "Check that a vacancy source answers with the configured settings",
	Long: `Send one request to the vendor API with the configured settings and report whether
it answered with a valid response.`,
	RunE: runCheckAPI,
}

var checkAPISource string

func init() {
	checkAPICmd.Flags().StringVarP(&checkAPISource, "source", "s", "", "Source to check (default: the active source)")

	rootCmd.AddCommand(checkAPICmd)
}

func runCheckAPI(cmd *cobra.Command, _ []string) error {
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	id := checkAPISource
	if id == "" {
		if id, err = registry.GetActive(); err != nil {
			return err
		}
	}

	src, err := registry.Instantiate(id)
	if err != nil {
		return err
	}
	if !src.CheckAPI(cmd.Context()) {
		return fmt.Errorf("API check for %q failed", id)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "API check for %q succeeded\n", id)
	return nil
}
