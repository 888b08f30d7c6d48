package main

import (
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/pipeline"
)

var (
	resolveKeyColumn string
	resolveDOIColumn string
	resolveOutput    string
)

// ResolveResponse summarizes a resolve run.
type ResolveResponse struct {
	Path       string         `json:"path"`
	Total      int            `json:"total"`
	Resolved   int            `json:"resolved"`
	Unresolved int            `json:"unresolved"`
	ByStrategy map[string]int `json:"by_strategy"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <input.csv>",
	Short: "Resolve publications to registry keys",
	Long: `Resolve each row of a CSV to a GBIF registry key.

A known key is used as is. Otherwise the DOI is followed through the resolver;
if it lands on the registry, the key is the last path segment. Failing that, a
dataset search on the DOI's last segment is used when it has exactly one hit.

Rows that cannot be resolved are written with registry_key UNRESOLVED.

Examples:
  alametrics resolve publications.csv --doi-column doi -o resolved.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveKeyColumn, "key-column", "registry_key", "Column holding a known registry key")
	resolveCmd.Flags().StringVar(&resolveDOIColumn, "doi-column", "DOI", "Column holding the DOI")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "resolved.csv", "Output CSV (- for stdout)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	input := mustReadTable(args[0])
	if !input.HasColumn(resolveKeyColumn) && !input.HasColumn(resolveDOIColumn) {
		exitWithError(ExitDataError, "%s has neither %q nor %q column", args[0], resolveKeyColumn, resolveDOIColumn)
	}

	p := mustPipeline()
	ctx, cancel := signalContext()
	defer cancel()

	res := p.Resolve(ctx, pipeline.Candidates(input, resolveKeyColumn, resolveDOIColumn))
	out := pipeline.ResolutionTable(res)
	if err := writeTable(out, resolveOutput); err != nil {
		exitWithError(ExitError, "writing table: %v", err)
	}
	if resolveOutput == "-" {
		return nil
	}

	resp := ResolveResponse{Path: resolveOutput, Total: len(res), ByStrategy: map[string]int{}}
	for _, r := range res {
		if r.Resolved() {
			resp.Resolved++
		} else {
			resp.Unresolved++
		}
		resp.ByStrategy[string(r.Strategy)]++
	}

	if humanOutput {
		outputHuman("Resolved %d of %d (%d unresolved) -> %s\n", resp.Resolved, resp.Total, resp.Unresolved, resp.Path)
		return nil
	}
	return outputJSON(resp)
}
