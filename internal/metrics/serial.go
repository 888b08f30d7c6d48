package metrics

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// JSON paths of the two journal impact scalars.
const (
	sjrPath  = "serial-metadata-response.entry.0.SJRList.SJR.0.$"
	snipPath = "serial-metadata-response.entry.0.SNIPList.SNIP.0.$"
)

// Serial reads journal impact scores from the Scopus serial title API.
type Serial struct {
	provider
	baseURL string
	apiKey  string
}

// NewSerial creates a serial title client. baseURL is the Elsevier API
// root.
func NewSerial(baseURL, apiKey string, opts ...Option) *Serial {
	return &Serial{
		provider: newProvider("serial", opts),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
	}
}

// Fetch returns SJR and SNIP for issn. An empty ISSN returns an empty
// Partial without a request. Each scalar missing from the response is ""
// on its own.
func (s *Serial) Fetch(ctx context.Context, issn ISSN) Partial {
	if issn.IsZero() {
		return Partial{}
	}

	u := fmt.Sprintf("%s/content/serial/title/issn/%s?apiKey=%s",
		s.baseURL, escapePath(issn.String()), url.QueryEscape(s.apiKey))
	body, err := s.http.GetBody(ctx, u, nil)
	if err != nil {
		s.degrade(issn.String(), err)
		return Partial{}
	}
	if !gjson.ValidBytes(body) {
		s.degrade(issn.String(), fmt.Errorf("%w: serial body is not JSON", transport.ErrInvalidResponse))
		return Partial{}
	}

	return Partial{
		ScopusSJR:  gjson.GetBytes(body, sjrPath).String(),
		ScopusSNIP: gjson.GetBytes(body, snipPath).String(),
	}
}
