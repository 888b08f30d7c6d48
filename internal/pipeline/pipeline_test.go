package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/ident"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/metrics"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/registry"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// upstream fakes every provider on one server. Only PlumX succeeds.
func upstream(t *testing.T, serialHits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/plumx/doi/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/plumx/doi/") != "10.1000/xyz" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"count_categories":[{"name":"citation","total":5}]}`))
	})
	mux.HandleFunc("/altmetric/doi/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/elsevier/content/search/scopus", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/elsevier/content/serial/title/issn/", func(w http.ResponseWriter, r *http.Request) {
		serialHits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(base string) config.Config {
	cfg := config.Default()
	cfg.Endpoints.PlumX = base + "/plumx"
	cfg.Endpoints.Altmetric = base + "/altmetric"
	cfg.Endpoints.Scopus = base + "/elsevier"
	cfg.Endpoints.DatasetSearch = base + "/dataset/search"
	cfg.Endpoints.Resolver = base + "/resolver/"
	cfg.Endpoints.RegistryWebHost = "registry.invalid"
	cfg.Credentials.ElsevierAPIKey = "test-key"
	cfg.Workers = 2
	return cfg
}

func testPipeline(cfg config.Config) *Pipeline {
	return New(cfg, WithTransportOptions(
		transport.WithRateLimit(1000),
		transport.WithBackoff(func(int) time.Duration { return 0 }),
	))
}

func TestRun_EndToEnd(t *testing.T) {
	var serialHits atomic.Int32
	srv := upstream(t, &serialHits)

	lib, err := table.ReadCSV(strings.NewReader("key,title,DOI\nK1,Atlas paper,10.1000/xyz\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	out, sum := testPipeline(testConfig(srv.URL)).Run(context.Background(), lib)

	if out.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", out.Len())
	}
	row := out.Rows[0]
	if row[metrics.PlumXCitations] != "5" {
		t.Errorf("%s = %q, want 5", metrics.PlumXCitations, row[metrics.PlumXCitations])
	}
	for _, c := range metrics.Columns {
		if c == metrics.ColDOI || c == metrics.PlumXCitations {
			continue
		}
		if out.HasColumn(c) {
			t.Errorf("unexpected metrics column %q", c)
		}
	}
	if row["key"] != "K1" || row["title"] != "Atlas paper" || row["DOI"] != "10.1000/xyz" {
		t.Errorf("library columns changed: %v", row)
	}
	if serialHits.Load() != 0 {
		t.Errorf("serial lookups = %d, want 0 without an ISSN", serialHits.Load())
	}
	if sum.RunID == "" || sum.DOIs != 1 || sum.OutputRows != 1 {
		t.Errorf("Summary = %+v", sum)
	}

	var buf bytes.Buffer
	if err := out.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	g := goldie.New(t)
	g.Assert(t, "run_end_to_end", buf.Bytes())
}

func TestRun_UnmatchedRowsSurvive(t *testing.T) {
	var serialHits atomic.Int32
	srv := upstream(t, &serialHits)

	lib := table.FromRows([]table.Row{
		{"key": "K1", "DOI": "10.1000/xyz"},
		{"key": "K2", "DOI": "10.1000/nothing"},
		{"key": "K3", "DOI": ""},
	}, "key", "DOI")

	out, sum := testPipeline(testConfig(srv.URL)).Run(context.Background(), lib)
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3: %v", out.Len(), out.Rows)
	}
	if sum.DOIs != 2 {
		t.Errorf("DOIs = %d, want 2", sum.DOIs)
	}
	for i, r := range out.Rows {
		if len(r) != len(out.Columns) {
			t.Errorf("row %d has %d cells, want %d", i, len(r), len(out.Columns))
		}
	}
	if got := out.Rows[1][metrics.PlumXCitations]; got != "" {
		t.Errorf("unmatched row citations = %q, want empty", got)
	}
}

func TestResolutionTable_MarksUnresolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dataset/search" {
			w.Write([]byte(`{"count":0,"results":[]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := testPipeline(testConfig(srv.URL))
	cands := Candidates(table.FromRows([]table.Row{
		{"gbif": "k-1", "doi": ""},
		{"gbif": "", "doi": "10.1/none"},
	}, "gbif", "doi"), "gbif", "doi")

	res := p.Resolve(context.Background(), cands)
	tbl := ResolutionTable(res)

	if got := tbl.Column(ColRegistryKey); got[0] != "k-1" || got[1] != ident.UnresolvedMarker {
		t.Errorf("registry keys = %v", got)
	}
	if got := tbl.Rows[1][ColReason]; got != registry.ReasonAmbiguous {
		t.Errorf("reason = %q, want %q", got, registry.ReasonAmbiguous)
	}
}
