package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

var queryCSV bool

// QueryResponse is the JSON shape of a query result.
type QueryResponse struct {
	Columns []string    `json:"columns"`
	Rows    []table.Row `json:"rows"`
	Count   int         `json:"count"`
}

var queryCmd = &cobra.Command{
	Use:   "query <table.csv> <sql>",
	Short: "Run SQL against a CSV table",
	Long: `Load a CSV into an in-memory SQLite database as table t (every column
TEXT) and run a query against it.

Examples:
  alametrics query merged.csv "SELECT title FROM t WHERE CAST(\"Citations [PlumX]\" AS INTEGER) > 10" --human
  alametrics query metrics.csv "SELECT COUNT(*) AS n FROM t" --csv`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryCSV, "csv", false, "Write the result as CSV")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	input := mustReadTable(args[0])

	ctx, cancel := signalContext()
	defer cancel()

	result, err := input.Query(ctx, args[1])
	if err != nil {
		exitWithError(ExitDataError, "query failed: %v", err)
	}

	switch {
	case queryCSV:
		return result.WriteCSV(os.Stdout)
	case humanOutput:
		renderTable(os.Stdout, result)
		return nil
	}

	rows := result.Rows
	if rows == nil {
		rows = []table.Row{}
	}
	return outputJSON(QueryResponse{Columns: result.Columns, Rows: rows, Count: len(rows)})
}
