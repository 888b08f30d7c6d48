package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

// maxCellWidth caps column width in human table output.
const maxCellWidth = 40

// ErrorResponse is the JSON shape of a fatal error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteResponse summarizes a command that wrote a table.
type WriteResponse struct {
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// outputJSON writes a value as indented JSON to stdout.
func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// mustReadTable reads a CSV table, exits on error.
func mustReadTable(path string) *table.Table {
	t, err := table.ReadCSVFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading table: %v", err)
	}
	return t
}

// writeTable writes t as CSV to path, or to stdout when path is "-".
func writeTable(t *table.Table, path string) error {
	if path == "-" {
		return t.WriteCSV(os.Stdout)
	}
	return t.WriteCSVFile(path)
}

// mustWriteTable writes t and reports where it went. Nothing else is
// printed when the table itself goes to stdout.
func mustWriteTable(t *table.Table, path string) {
	if err := writeTable(t, path); err != nil {
		exitWithError(ExitError, "writing table: %v", err)
	}
	if path == "-" {
		return
	}
	if humanOutput {
		outputHuman("Wrote %d rows x %d columns to %s\n", t.Len(), len(t.Columns), path)
		return
	}
	outputJSON(WriteResponse{Path: path, Rows: t.Len(), Columns: len(t.Columns)})
}

// renderTable writes t as aligned text columns.
func renderTable(w io.Writer, t *table.Table) {
	if t.Len() == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
	}
	for r := range t.Rows {
		for i, v := range t.Record(r) {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxCellWidth)
	}

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = padRight(truncate(strings.ToUpper(col), widths[i]), widths[i])
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(header, "  "), " "))

	for r := range t.Rows {
		rec := t.Record(r)
		cells := make([]string, len(rec))
		for i, v := range rec {
			cells[i] = padRight(truncate(v, widths[i]), widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	fmt.Fprintf(w, "(%d rows)\n", t.Len())
}

// truncate shortens s to width, marking the cut with "...".
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// padRight pads a string with spaces on the right.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
