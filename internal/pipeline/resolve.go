package pipeline

import (
	"context"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/registry"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

// Resolution table columns.
const (
	ColInputKey    = "input_key"
	ColInputDOI    = "input_doi"
	ColRegistryKey = "registry_key"
	ColStrategy    = "strategy"
	ColReason      = "reason"
)

// ResolutionColumns is the header of a resolution table.
var ResolutionColumns = []string{ColInputKey, ColInputDOI, ColRegistryKey, ColStrategy, ColReason}

// Resolve runs the resolution cascade over every candidate.
func (p *Pipeline) Resolve(ctx context.Context, candidates []registry.Candidate) []registry.Resolution {
	return registry.NewResolver(p.Registry()).ResolveAll(ctx, candidates, p.cfg.Workers)
}

// ResolutionTable renders resolutions one row per candidate. Unresolved
// candidates carry the UNRESOLVED marker so they stay visible for review.
func ResolutionTable(res []registry.Resolution) *table.Table {
	t := table.New(ResolutionColumns...)
	for _, r := range res {
		t.Append(table.Row{
			ColInputKey:    r.Candidate.RegistryKey,
			ColInputDOI:    r.Candidate.DOI,
			ColRegistryKey: r.Identifier.String(),
			ColStrategy:    string(r.Strategy),
			ColReason:      r.Reason,
		})
	}
	return t
}

// Candidates reads resolution candidates from a table. keyCol and doiCol
// name the columns holding a known registry key and a DOI; either may be
// absent from the table.
func Candidates(t *table.Table, keyCol, doiCol string) []registry.Candidate {
	out := make([]registry.Candidate, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, registry.Candidate{RegistryKey: r[keyCol], DOI: r[doiCol]})
	}
	return out
}
