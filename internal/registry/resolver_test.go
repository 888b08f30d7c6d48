package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/ident"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

func testTransport() *transport.Client {
	return transport.New("gbif",
		transport.WithRateLimit(1000),
		transport.WithBackoff(func(int) time.Duration { return 0 }))
}

// registryFixture serves a registry web host, a DOI resolver and the
// dataset search endpoint.
type registryFixture struct {
	web      *httptest.Server
	other    *httptest.Server
	resolver *httptest.Server
	api      *httptest.Server
	hits     atomic.Int32
	searches map[string]string
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()
	f := &registryFixture{
		searches: map[string]string{
			"single": `{"count":1,"results":[{"key":"key-from-search"}]}`,
			"many":   `{"count":2,"results":[{"key":"a"},{"key":"b"}]}`,
			"none":   `{"count":0,"results":[]}`,
			"lying":  `{"count":3,"results":[{"key":"only-one-listed"}]}`,
			"broken": `{"count":`,
		},
	}

	f.web = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.Write([]byte("<html>dataset</html>"))
	}))
	t.Cleanup(f.web.Close)

	f.other = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.Write([]byte("<html>publisher</html>"))
	}))
	t.Cleanup(f.other.Close)

	f.resolver = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		switch r.URL.Path {
		case "/doi:10.15468/abc123":
			http.Redirect(w, r, f.web.URL+"/dataset/redirect-key", http.StatusFound)
		case "/doi:10.1000/single":
			http.Redirect(w, r, f.other.URL+"/article/single", http.StatusFound)
		case "/doi:10.1000/many", "/doi:10.1000/none", "/doi:10.1000/lying", "/doi:10.1000/broken":
			http.Redirect(w, r, f.other.URL+"/article", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.resolver.Close)

	f.api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		body, ok := f.searches[r.URL.Query().Get("q")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(f.api.Close)

	return f
}

func (f *registryFixture) endpoints() config.Endpoints {
	ep := config.Default().Endpoints
	ep.Resolver = f.resolver.URL + "/"
	ep.RegistryWebHost = strings.TrimPrefix(f.web.URL, "http://")
	ep.DatasetSearch = f.api.URL + "/dataset/search"
	ep.Literature = f.api.URL + "/resource/search"
	return ep
}

func (f *registryFixture) newResolver() *Resolver {
	return NewResolver(NewClient(f.endpoints(), WithTransport(testTransport())))
}

func TestResolve_KnownKeyMakesNoRequest(t *testing.T) {
	f := newRegistryFixture(t)
	r := f.newResolver()

	res := r.Explain(context.Background(), Candidate{RegistryKey: "known-key", DOI: "10.15468/abc123"})
	if res.Identifier.Kind() != ident.KindRegistryKey || res.Identifier.Value() != "known-key" {
		t.Errorf("Identifier = %v, want known-key", res.Identifier)
	}
	if res.Strategy != StrategyKnownKey {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategyKnownKey)
	}
	if n := f.hits.Load(); n != 0 {
		t.Errorf("made %d requests, want 0", n)
	}
}

func TestResolve_RedirectToRegistry(t *testing.T) {
	f := newRegistryFixture(t)
	r := f.newResolver()

	res := r.Explain(context.Background(), Candidate{DOI: "10.15468/abc123"})
	if !res.Resolved() {
		t.Fatalf("not resolved: %+v", res)
	}
	if got := res.Identifier.Value(); got != "redirect-key" {
		t.Errorf("key = %q, want redirect-key", got)
	}
	if res.Strategy != StrategyRedirect {
		t.Errorf("Strategy = %s", res.Strategy)
	}
}

func TestResolve_SearchFallback(t *testing.T) {
	tests := []struct {
		name       string
		doi        string
		wantKey    string
		wantReason string
		wantErr    error
	}{
		{"exactly one result", "10.1000/single", "key-from-search", "", nil},
		{"two results", "10.1000/many", "", ReasonAmbiguous, ErrAmbiguous},
		{"zero results", "10.1000/none", "", ReasonAmbiguous, ErrAmbiguous},
		{"count disagrees with results", "10.1000/lying", "", ReasonAmbiguous, ErrAmbiguous},
		{"malformed json", "10.1000/broken", "", ReasonLookupFailed, transport.ErrInvalidResponse},
		{"resolver 404 then search error", "10.1000/unknown", "", ReasonLookupFailed, transport.ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistryFixture(t)
			res := f.newResolver().Explain(context.Background(), Candidate{DOI: tt.doi})

			if tt.wantKey != "" {
				if res.Identifier.Value() != tt.wantKey || !res.Resolved() {
					t.Errorf("Identifier = %v, want %s", res.Identifier, tt.wantKey)
				}
				if res.Strategy != StrategySearch {
					t.Errorf("Strategy = %s", res.Strategy)
				}
				return
			}

			if res.Identifier.Kind() != ident.KindUnresolved {
				t.Errorf("Identifier = %v, want unresolved", res.Identifier)
			}
			if res.Identifier.String() != ident.UnresolvedMarker {
				t.Errorf("String() = %q", res.Identifier.String())
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
		})
	}
}

func TestResolve_NothingKnown(t *testing.T) {
	f := newRegistryFixture(t)
	res := f.newResolver().Explain(context.Background(), Candidate{})
	if res.Identifier.Kind() != ident.KindUnresolved || !errors.Is(res.Err, ErrUnresolvable) {
		t.Errorf("Explain(empty) = %+v", res)
	}
	if n := f.hits.Load(); n != 0 {
		t.Errorf("made %d requests, want 0", n)
	}
}

func TestResolveAll_KeepsOrder(t *testing.T) {
	f := newRegistryFixture(t)
	cands := []Candidate{
		{DOI: "10.1000/many"},
		{RegistryKey: "k1"},
		{DOI: "10.15468/abc123"},
		{},
		{DOI: "10.1000/single"},
	}
	got := f.newResolver().ResolveAll(context.Background(), cands, 3)

	want := []string{ident.UnresolvedMarker, "k1", "redirect-key", ident.UnresolvedMarker, "key-from-search"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Identifier.String() != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i].Identifier, want[i])
		}
		if got[i].Candidate != cands[i] {
			t.Errorf("[%d] candidate = %+v, want %+v", i, got[i].Candidate, cands[i])
		}
	}
}
