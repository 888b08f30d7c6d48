package main

import (
	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "GBIF literature registry commands",
	Long: `Commands for the GBIF literature registry.

The registry keys of the ALA's data resources are discovered from the ALA
collectory; the literature citing each key is fetched from GBIF.`,
}

func init() {
	rootCmd.AddCommand(registryCmd)
}
