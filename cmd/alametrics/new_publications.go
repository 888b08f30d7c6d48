package main

import (
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/merge"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

var newPublicationsOutput string

var newPublicationsCmd = &cobra.Command{
	Use:   "new-publications <library.csv> <registry.csv> [ignore.csv]",
	Short: "List registry publications missing from the library",
	Long: `List the registry records whose id is neither in the library's archive
column nor in the "GBIF key" column of an optional ignore list.

Examples:
  alametrics new-publications library.csv publications_from_gbif.csv ignore.csv -o new.csv`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runNewPublications,
}

func init() {
	newPublicationsCmd.Flags().StringVarP(&newPublicationsOutput, "output", "o", "new_publications.csv", "Output CSV (- for stdout)")
	rootCmd.AddCommand(newPublicationsCmd)
}

func runNewPublications(cmd *cobra.Command, args []string) error {
	lib := mustReadTable(args[0])
	reg := mustReadTable(args[1])
	if !reg.HasColumn(merge.RegistryIDColumn) {
		exitWithError(ExitDataError, "%s has no %q column", args[1], merge.RegistryIDColumn)
	}

	var ignore *table.Table
	if len(args) == 3 {
		ignore = mustReadTable(args[2])
	}

	mustWriteTable(merge.NewPublications(lib, reg, ignore), newPublicationsOutput)
	return nil
}
