package main

import (
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
)

// NormalizeResult is the JSON shape of one normalized DOI.
type NormalizeResult struct {
	Input    string `json:"input"`
	URL      string `json:"url"`
	Encoding string `json:"encoding"`
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <doi>...",
	Short: "Normalize DOI strings to resolver URLs",
	Long: `Normalize DOI-like strings into resolver URLs and report the encoding
each was written in (bare, prefixed, resolver_prefixed, malformed_doubled).

Examples:
  alametrics normalize 10.15468/dl.abc123
  alametrics normalize http://doi.org/doi.org/10.1/abc --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	results := make([]NormalizeResult, len(args))
	for i, raw := range args {
		u, enc := doi.Normalize(raw)
		results[i] = NormalizeResult{Input: raw, URL: u, Encoding: enc.String()}
	}

	if humanOutput {
		for _, r := range results {
			outputHuman("%s\t%s\n", r.URL, r.Encoding)
		}
		return nil
	}
	return outputJSON(results)
}
