package main

import (
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

var libraryOutput string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Export the Zotero group library as CSV",
	Long: `Read every top-level item of the Zotero group library and write the
journal articles and conference papers as CSV.

Requires ZOTERO_API_KEY and ZOTERO_LIBRARY_ID.

Examples:
  alametrics library -o library.csv`,
	Args: cobra.NoArgs,
	RunE: runLibrary,
}

func init() {
	libraryCmd.Flags().StringVarP(&libraryOutput, "output", "o", "library.csv", "Output CSV (- for stdout)")
	rootCmd.AddCommand(libraryCmd)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	p := mustPipeline(config.ServiceZotero)
	ctx, cancel := signalContext()
	defer cancel()

	t, err := p.LibraryTable(ctx)
	if err != nil {
		if transport.IsAuthError(err) {
			exitWithError(ExitConfigError, "zotero rejected the credentials: %v", err)
		}
		exitWithError(ExitError, "reading library: %v", err)
	}
	mustWriteTable(t, libraryOutput)
	return nil
}
