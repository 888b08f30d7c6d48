package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/pipeline"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

var (
	runLibraryPath string
	runOutput      string
)

// RunResponse is the JSON shape of a finished run.
type RunResponse struct {
	Path string `json:"path"`
	pipeline.Summary
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the merged library and metrics table",
	Long: `Read the reference library, collect metrics for its DOIs, and write the
library outer-joined with the metrics on DOI.

The library is read from Zotero unless --library names a CSV export.

Requires ELSEVIER_API_KEY, and ZOTERO_API_KEY and ZOTERO_LIBRARY_ID when
reading from Zotero.

Examples:
  alametrics run -o ala_publications_with_metrics.csv
  alametrics run --library library.csv -o merged.csv --human`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runLibraryPath, "library", "", "Library CSV to use instead of Zotero")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "ala_publications_with_metrics.csv", "Output CSV (- for stdout)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	services := []config.Service{config.ServiceElsevier}
	var lib *table.Table
	if runLibraryPath != "" {
		lib = mustReadTable(runLibraryPath)
	} else {
		services = append(services, config.ServiceZotero)
	}

	p := mustPipeline(services...)
	ctx, cancel := signalContext()
	defer cancel()

	if lib == nil {
		var err error
		lib, err = p.LibraryTable(ctx)
		if err != nil {
			exitWithError(ExitError, "reading library: %v", err)
		}
	}

	out, sum := p.Run(ctx, lib)
	if err := writeTable(out, runOutput); err != nil {
		exitWithError(ExitError, "writing table: %v", err)
	}
	if runOutput == "-" {
		return nil
	}

	if humanOutput {
		outputHuman("Run %s\n", sum.RunID)
		outputHuman("  library rows: %d\n", sum.LibraryRows)
		outputHuman("  DOIs:         %d\n", sum.DOIs)
		outputHuman("  metrics rows: %d\n", sum.MetricsRows)
		outputHuman("  output:       %d rows x %d columns -> %s\n", sum.OutputRows, sum.Columns, runOutput)
		outputHuman("  elapsed:      %s\n", sum.Duration.Round(time.Millisecond))
		return nil
	}
	return outputJSON(RunResponse{Path: runOutput, Summary: sum})
}
