package main

import (
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/library"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/merge"
)

var (
	mergeKey    string
	mergeOutput string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <library.csv> <metrics.csv>",
	Short: "Outer-join library and metrics tables on DOI",
	Long: `Outer-join two tables on a shared key column. Keys are compared after
DOI cleaning, so "https://doi.org/10.1/X" matches "10.1/x". Rows on either
side without a match are kept; exact duplicate rows are dropped.

Examples:
  alametrics merge library.csv metrics.csv -o merged.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeKey, "key", library.ColDOI, "Join column present in both tables")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.csv", "Output CSV (- for stdout)")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	lib := mustReadTable(args[0])
	met := mustReadTable(args[1])
	if !lib.HasColumn(mergeKey) {
		exitWithError(ExitDataError, "%s has no %q column", args[0], mergeKey)
	}
	if !met.HasColumn(mergeKey) {
		exitWithError(ExitDataError, "%s has no %q column", args[1], mergeKey)
	}

	mustWriteTable(merge.Merge(lib, met, mergeKey), mergeOutput)
	return nil
}
