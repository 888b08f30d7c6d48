package main

import (
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/library"
)

var (
	metricsColumn string
	metricsOutput string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <input.csv>",
	Short: "Collect PlumX, Altmetric and Scopus metrics for DOIs",
	Long: `Collect metrics for every distinct DOI in a CSV column.

Each DOI is looked up in PlumX, Altmetric and Scopus; the journal's SJR and
SNIP are then read from the Scopus serial title API using the ISSN Scopus
reported. A provider that fails contributes no columns for that DOI.

Requires ELSEVIER_API_KEY.

Examples:
  alametrics metrics library.csv -o metrics.csv
  alametrics metrics dois.csv --column doi -o -`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsColumn, "column", library.ColDOI, "Column holding the DOIs")
	metricsCmd.Flags().StringVarP(&metricsOutput, "output", "o", "metrics.csv", "Output CSV (- for stdout)")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	input := mustReadTable(args[0])
	if !input.HasColumn(metricsColumn) {
		exitWithError(ExitDataError, "%s has no %q column", args[0], metricsColumn)
	}

	p := mustPipeline(config.ServiceElsevier)
	ctx, cancel := signalContext()
	defer cancel()

	out := p.Metrics(ctx, library.DOIs(input, metricsColumn))
	mustWriteTable(out, metricsOutput)
	return nil
}
