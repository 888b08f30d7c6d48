package collections

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

const facetBody = `[{
  "fieldName": "data_resource_uid",
  "fieldResult": [
    {"label": "One", "i18nCode": "dataResource.dr1", "count": 10},
    {"label": "Two", "i18nCode": "dataResource.dr2", "count": 5},
    {"label": "Broken", "i18nCode": "dataResource", "count": 1},
    {"label": "Three", "i18nCode": "dataResource.dr3", "count": 3},
    {"label": "Four", "i18nCode": "dataResource.dr4", "count": 2},
    {"label": "Five", "i18nCode": "dataResource.dr5", "count": 1}
  ]
}]`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	resources := map[string]string{
		"dr1": `{"uid":"dr1","gbifRegistryKey":"key-1"}`,
		"dr2": `{"uid":"dr2","gbifRegistryKey":null}`,
		"dr3": `not json`,
		"dr5": `{"uid":"dr5","gbifRegistryKey":"key-1"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/ws/occurrence/facets":
			if r.URL.Query().Get("facets") != "data_resource_uid" {
				t.Errorf("facets = %q", r.URL.Query().Get("facets"))
			}
			w.Write([]byte(facetBody))
		case strings.HasPrefix(r.URL.Path, "/ws/dataResource/"):
			body, ok := resources[strings.TrimPrefix(r.URL.Path, "/ws/dataResource/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	tc := transport.New("ala",
		transport.WithRateLimit(1000),
		transport.WithBackoff(func(int) time.Duration { return 0 }))
	return NewClient(srv.URL+"/ws/occurrence/facets", srv.URL+"/ws/dataResource/", WithTransport(tc))
}

func TestDataResources(t *testing.T) {
	uids, err := newClient(newServer(t)).DataResources(context.Background())
	if err != nil {
		t.Fatalf("DataResources() error = %v", err)
	}
	want := []string{"dr1", "dr2", "dr3", "dr4", "dr5"}
	if !reflect.DeepEqual(uids, want) {
		t.Errorf("DataResources() = %v, want %v", uids, want)
	}
}

func TestRegistryKeys_SkipsMissingAndFailed(t *testing.T) {
	keys, err := newClient(newServer(t)).RegistryKeys(context.Background(), 3)
	if err != nil {
		t.Fatalf("RegistryKeys() error = %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"key-1"}) {
		t.Errorf("RegistryKeys() = %v, want [key-1]", keys)
	}
}

func TestRegistryKeys_FacetFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newClient(srv).RegistryKeys(context.Background(), 1); err == nil {
		t.Error("RegistryKeys() expected error")
	}
}
