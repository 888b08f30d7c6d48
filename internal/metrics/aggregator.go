package metrics

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

// DOISource is a provider keyed by DOI.
type DOISource interface {
	Fetch(ctx context.Context, doi string) Partial
}

// CitationIndex is the provider whose result supplies the journal ISSN.
type CitationIndex interface {
	Fetch(ctx context.Context, doi string) ScopusResult
}

// JournalSource is a provider keyed by the ISSN a CitationIndex produced.
type JournalSource interface {
	Fetch(ctx context.Context, issn ISSN) Partial
}

// Aggregator runs the four providers for a DOI and merges their output.
type Aggregator struct {
	mentions  DOISource
	attention DOISource
	index     CitationIndex
	journal   JournalSource
	logger    *log.Logger
}

// NewAggregator wires the providers. mentions and attention are normally
// PlumX and Altmetric.
func NewAggregator(mentions, attention DOISource, index CitationIndex, journal JournalSource, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Aggregator{
		mentions:  mentions,
		attention: attention,
		index:     index,
		journal:   journal,
		logger:    logger,
	}
}

// Aggregate fetches every provider's partial record for rawDOI. The DOI
// sources and the citation index run concurrently; the journal source runs
// once the index result is in. Parts merge in the order mentions,
// attention, index, journal, later parts winning a key collision.
func (a *Aggregator) Aggregate(ctx context.Context, rawDOI string) Partial {
	d := doi.Strip(rawDOI)
	if d == "" {
		return Partial{}
	}

	var mentions, attention Partial
	var indexed ScopusResult

	p := pool.New()
	p.Go(func() { mentions = a.mentions.Fetch(ctx, d) })
	p.Go(func() { attention = a.attention.Fetch(ctx, d) })
	p.Go(func() { indexed = a.index.Fetch(ctx, d) })
	p.Wait()

	journal := a.journal.Fetch(ctx, indexed.ISSN())

	merged := Merge(mentions, attention, indexed.Partial(), journal)
	a.logger.Debug("aggregated", "doi", d, "fields", len(merged))
	return merged
}

// Row returns the DOI column plus the aggregated fields.
func (a *Aggregator) Row(ctx context.Context, rawDOI string) table.Row {
	row := table.Row{}
	for k, v := range a.Aggregate(ctx, rawDOI) {
		row[k] = v
	}
	row[ColDOI] = rawDOI
	return row
}

// AggregateAll returns one row per DOI, in input order, with at most
// workers publications in flight.
func (a *Aggregator) AggregateAll(ctx context.Context, dois []string, workers int) []table.Row {
	mapper := iter.Mapper[string, table.Row]{MaxGoroutines: max(workers, 1)}
	return mapper.Map(dois, func(d *string) table.Row {
		return a.Row(ctx, *d)
	})
}

// Table builds a metrics table with the header in Columns order. Fields no
// provider supplied for any DOI are left out of the header.
func Table(rows []table.Row) *table.Table {
	present := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			present[k] = true
		}
	}
	var preferred []string
	for _, c := range Columns {
		if present[c] || c == ColDOI {
			preferred = append(preferred, c)
		}
	}
	return table.FromRows(rows, preferred...)
}
