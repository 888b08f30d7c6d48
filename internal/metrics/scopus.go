package metrics

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/flex"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// Scopus looks publications up in the Scopus search API.
type Scopus struct {
	provider
	baseURL string
	apiKey  string
}

// NewScopus creates a Scopus search client. baseURL is the Elsevier API
// root.
func NewScopus(baseURL, apiKey string, opts ...Option) *Scopus {
	return &Scopus{
		provider: newProvider("scopus", opts),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
	}
}

// ISSN identifies a journal for the serial title lookup. Values come only
// from a Scopus search result, so the journal step cannot run before it.
type ISSN struct {
	value string
}

func (i ISSN) String() string { return i.value }

// IsZero reports whether no ISSN was found.
func (i ISSN) IsZero() bool { return i.value == "" }

// ScopusResult is the first entry of a Scopus search, or the empty result.
type ScopusResult struct {
	Found     bool
	Journal   string
	CiteCount string
	EISSN     string
	issn      string
}

// ISSN returns the print ISSN, which is empty when none was found.
func (r ScopusResult) ISSN() ISSN {
	return ISSN{value: r.issn}
}

// Partial renders the result. The empty result contributes no keys.
func (r ScopusResult) Partial() Partial {
	if !r.Found {
		return Partial{}
	}
	return Partial{
		ScopusJournal:   r.Journal,
		ScopusCiteCount: r.CiteCount,
		ScopusEISSN:     r.EISSN,
		ScopusISSN:      r.issn,
	}
}

type scopusSearchResponse struct {
	SearchResults struct {
		Entry []scopusEntry `json:"entry"`
	} `json:"search-results"`
}

type scopusEntry struct {
	Error           *string      `json:"error"`
	PublicationName *string      `json:"prism:publicationName"`
	CitedByCount    *flex.String `json:"citedby-count"`
	EISSN           *string      `json:"prism:eIssn"`
	ISSN            *string      `json:"prism:issn"`
}

// Fetch searches Scopus for doi and keeps the first entry only. An empty
// result set, or any failure, yields the empty result.
func (s *Scopus) Fetch(ctx context.Context, doi string) ScopusResult {
	q := url.Values{}
	q.Set("query", "DOI("+doi+")")
	q.Set("apiKey", s.apiKey)

	body, err := s.http.GetBody(ctx, s.baseURL+"/content/search/scopus?"+q.Encode(), nil)
	if err != nil {
		s.degrade(doi, err)
		return ScopusResult{}
	}

	res, err := parseScopus(body)
	if err != nil {
		s.degrade(doi, err)
		return ScopusResult{}
	}
	return res
}

func parseScopus(body []byte) (ScopusResult, error) {
	var resp scopusSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ScopusResult{}, fmt.Errorf("%w: %v", transport.ErrInvalidResponse, err)
	}

	entries := resp.SearchResults.Entry
	// An empty result set comes back as a single entry carrying "error".
	if len(entries) == 0 || entries[0].Error != nil {
		return ScopusResult{}, nil
	}

	e := entries[0]
	res := ScopusResult{Found: true, CiteCount: "0"}
	if e.PublicationName != nil {
		res.Journal = *e.PublicationName
	}
	if e.CitedByCount != nil && *e.CitedByCount != "" {
		res.CiteCount = e.CitedByCount.String()
	}
	if e.EISSN != nil {
		res.EISSN = *e.EISSN
	}
	if e.ISSN != nil {
		res.issn = *e.ISSN
	}
	return res, nil
}
