// Package merge joins the reference library with the metrics and registry
// tables.
package merge

import (
	"strings"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

// Merge outer-joins library and metrics on the key column, compared as
// cleaned DOIs. Unmatched rows from either side are kept with the other
// side's columns empty. Where both sides have a non-key column, the library
// value is kept. Empty keys never match. Exact duplicate rows are dropped.
func Merge(library, metrics *table.Table, key string) *table.Table {
	out := table.New(library.Columns...)
	for _, c := range metrics.Columns {
		out.AddColumn(c)
	}
	out.AddColumn(key)

	byKey := make(map[string][]int)
	for i, r := range metrics.Rows {
		if k := doi.Clean(r[key]); k != "" {
			byKey[k] = append(byKey[k], i)
		}
	}

	used := make([]bool, len(metrics.Rows))
	for _, lib := range library.Rows {
		lk := doi.Clean(lib[key])
		matches := byKey[lk]
		if lk == "" || len(matches) == 0 {
			out.Rows = append(out.Rows, lib.Clone())
			continue
		}
		for _, m := range matches {
			used[m] = true
			row := metrics.Rows[m].Clone()
			for k, v := range lib {
				row[k] = v
			}
			out.Rows = append(out.Rows, row)
		}
	}

	for i, r := range metrics.Rows {
		if !used[i] {
			out.Rows = append(out.Rows, r.Clone())
		}
	}

	out.Normalize()
	out.Dedupe()
	return out
}

// Column names used by NewPublications.
const (
	LibraryArchiveColumn = "archive"
	IgnoreKeyColumn      = "GBIF key"
	RegistryIDColumn     = "id"
)

// NewPublications returns the registry rows whose id appears neither in
// the library's archive column nor in the ignore list. ignore may be nil.
func NewPublications(library, registry, ignore *table.Table) *table.Table {
	known := make(map[string]bool)
	collect := func(t *table.Table, col string) {
		if t == nil {
			return
		}
		for _, v := range t.Column(col) {
			if v = strings.TrimSpace(v); v != "" {
				known[v] = true
			}
		}
	}
	collect(library, LibraryArchiveColumn)
	collect(ignore, IgnoreKeyColumn)

	out := table.New(registry.Columns...)
	for _, r := range registry.Rows {
		id := strings.TrimSpace(r[RegistryIDColumn])
		if id == "" || known[id] {
			continue
		}
		out.Rows = append(out.Rows, r.Clone())
	}
	out.Normalize()
	return out
}
