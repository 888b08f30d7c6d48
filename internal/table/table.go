// Package table holds the flat, string-valued tables the pipeline reads and
// writes. Every row of a normalized table carries every column of the header.
package table

import (
	"slices"
	"sort"
	"strings"
)

// Row maps a column name to its cell value.
type Row map[string]string

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered header plus rows. Rows may be sparse until Normalize
// is called.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given header.
func New(columns ...string) *Table {
	t := &Table{}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// FromRows builds a table whose header is the union of all row keys.
// Columns named in preferred come first, in that order; the rest follow in
// first-seen order, alphabetical within a row.
func FromRows(rows []Row, preferred ...string) *Table {
	t := New(preferred...)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

// AddColumn appends name to the header if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// HasColumn reports whether name is in the header.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Append adds r, extending the header with any keys it has not seen.
func (t *Table) Append(r Row) {
	var fresh []string
	for k := range r {
		if !t.HasColumn(k) {
			fresh = append(fresh, k)
		}
	}
	sort.Strings(fresh)
	t.Columns = append(t.Columns, fresh...)
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of one column, "" where a row lacks it.
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Record returns row i as a slice aligned with the header.
func (t *Table) Record(i int) []string {
	return t.align(t.Rows[i])
}

func (t *Table) align(r Row) []string {
	rec := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		rec[j] = r[c]
	}
	return rec
}

// Normalize fills every absent cell with the empty string.
func (t *Table) Normalize() {
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if _, ok := r[c]; !ok {
				r[c] = ""
			}
		}
	}
}

// Dedupe drops rows that equal an earlier row over every column and
// returns the number removed. An absent cell equals an empty one.
func (t *Table) Dedupe() int {
	seen := make(map[string]bool, len(t.Rows))
	kept := t.Rows[:0]
	removed := 0
	for _, r := range t.Rows {
		sig := strings.Join(t.align(r), "\x1f")
		if seen[sig] {
			removed++
			continue
		}
		seen[sig] = true
		kept = append(kept, r)
	}
	clear(t.Rows[len(kept):])
	t.Rows = kept
	return removed
}

// Index returns, for each non-empty value of column, the position of the
// first row holding it.
func (t *Table) Index(column string) map[string]int {
	idx := make(map[string]int)
	for i, r := range t.Rows {
		v := r[column]
		if v == "" {
			continue
		}
		if _, ok := idx[v]; !ok {
			idx[v] = i
		}
	}
	return idx
}
