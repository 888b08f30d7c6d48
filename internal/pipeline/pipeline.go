// Package pipeline wires the registry, metrics and library clients from one
// configuration and runs the batch steps.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/collections"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/library"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/merge"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/metrics"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/registry"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// Pipeline holds the configured clients.
type Pipeline struct {
	cfg       config.Config
	logger    *log.Logger
	transport []transport.Option
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithTransportOptions appends options applied to every HTTP client.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(p *Pipeline) {
		p.transport = append(p.transport, opts...)
	}
}

// New creates a pipeline for cfg.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

func (p *Pipeline) newTransport(name string) *transport.Client {
	opts := []transport.Option{
		transport.WithTimeout(p.cfg.Timeout),
		transport.WithAttempts(p.cfg.Attempts),
		transport.WithRateLimit(p.cfg.RateLimit),
		transport.WithLogger(p.logger.WithPrefix(name)),
	}
	return transport.New(name, append(opts, p.transport...)...)
}

// Registry returns a registry client.
func (p *Pipeline) Registry() *registry.Client {
	return registry.NewClient(p.cfg.Endpoints,
		registry.WithTransport(p.newTransport("gbif")),
		registry.WithLogger(p.logger.WithPrefix("gbif")))
}

// Aggregator returns a metrics aggregator over the four providers.
func (p *Pipeline) Aggregator() *metrics.Aggregator {
	ep, cred := p.cfg.Endpoints, p.cfg.Credentials
	opts := func(name string) []metrics.Option {
		return []metrics.Option{
			metrics.WithTransport(p.newTransport(name)),
			metrics.WithLogger(p.logger.WithPrefix(name)),
		}
	}
	return metrics.NewAggregator(
		metrics.NewPlumX(ep.PlumX, cred.ElsevierAPIKey, opts("plumx")...),
		metrics.NewAltmetric(ep.Altmetric, cred.AltmetricAPIKey, opts("altmetric")...),
		metrics.NewScopus(ep.Scopus, cred.ElsevierAPIKey, opts("scopus")...),
		metrics.NewSerial(ep.Scopus, cred.ElsevierAPIKey, opts("serial")...),
		p.logger.WithPrefix("metrics"),
	)
}

// Library returns a reference-manager client.
func (p *Pipeline) Library() *library.Client {
	cred := p.cfg.Credentials
	return library.NewClient(p.cfg.Endpoints.Zotero, cred.ZoteroLibraryID, cred.ZoteroAPIKey,
		library.WithTransport(p.newTransport("zotero")),
		library.WithLogger(p.logger.WithPrefix("zotero")))
}

// Collections returns the ALA data resource client.
func (p *Pipeline) Collections() *collections.Client {
	return collections.NewClient(p.cfg.Endpoints.ALAFacets, p.cfg.Endpoints.ALACollections,
		collections.WithTransport(p.newTransport("ala")),
		collections.WithLogger(p.logger.WithPrefix("ala")))
}

// Metrics aggregates every DOI into a metrics table.
func (p *Pipeline) Metrics(ctx context.Context, dois []string) *table.Table {
	rows := p.Aggregator().AggregateAll(ctx, dois, p.cfg.Workers)
	return metrics.Table(rows)
}

// LibraryTable reads the whole reference library as a table.
func (p *Pipeline) LibraryTable(ctx context.Context) (*table.Table, error) {
	items, err := p.Library().All(ctx)
	if err != nil {
		return nil, err
	}
	t := library.ToTable(items)
	p.logger.Info("library read", "items", len(items), "relevant", t.Len())
	return t, nil
}

// RegistryTable fetches the literature citing every key.
func (p *Pipeline) RegistryTable(ctx context.Context, keys []string) (*table.Table, []registry.FetchResult) {
	results := p.Registry().FetchAll(ctx, keys, p.cfg.Workers)
	return registry.RecordsTable(registry.Records(results)), results
}

// Summary describes one Run.
type Summary struct {
	RunID       string        `json:"run_id"`
	LibraryRows int           `json:"library_rows"`
	DOIs        int           `json:"dois"`
	MetricsRows int           `json:"metrics_rows"`
	OutputRows  int           `json:"output_rows"`
	Columns     int           `json:"columns"`
	Duration    time.Duration `json:"duration_ns"`
}

// Run aggregates metrics for the library's DOIs and merges them into the
// library table.
func (p *Pipeline) Run(ctx context.Context, lib *table.Table) (*table.Table, Summary) {
	start := time.Now()
	sum := Summary{RunID: uuid.NewString(), LibraryRows: lib.Len()}
	logger := p.logger.With("run", sum.RunID)

	dois := library.DOIs(lib, library.ColDOI)
	sum.DOIs = len(dois)
	logger.Info("aggregating metrics", "dois", len(dois), "workers", p.cfg.Workers)

	met := p.Metrics(ctx, dois)
	sum.MetricsRows = met.Len()

	out := merge.Merge(lib, met, library.ColDOI)
	sum.OutputRows = out.Len()
	sum.Columns = len(out.Columns)
	sum.Duration = time.Since(start)

	logger.Info("run complete", "rows", sum.OutputRows, "columns", sum.Columns, "elapsed", sum.Duration)
	return out, sum
}
