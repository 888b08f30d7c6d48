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

// Altmetric reads attention counts from the Altmetric API.
type Altmetric struct {
	provider
	baseURL string
	apiKey  string
}

// NewAltmetric creates an Altmetric client. apiKey may be empty.
func NewAltmetric(baseURL, apiKey string, opts ...Option) *Altmetric {
	return &Altmetric{
		provider: newProvider("altmetric", opts),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
	}
}

// AltmetricResponse is the subset of an Altmetric record that is kept.
// Nil fields were absent from the response.
type AltmetricResponse struct {
	Score      *flex.String   `json:"score"`
	News       *flex.String   `json:"cited_by_msm_count"`
	Facebook   *flex.String   `json:"cited_by_fbwalls_count"`
	Blogs      *flex.String   `json:"cited_by_feeds_count"`
	GooglePlus *flex.String   `json:"cited_by_gplus_count"`
	Twitter    *flex.String   `json:"cited_by_tweeters_count"`
	Subjects   *[]flex.String `json:"subjects"`
}

// Partial renders the response. Counters default to "0"; subjects default
// to "" and are otherwise joined with ",".
func (r AltmetricResponse) Partial() Partial {
	count := func(v *flex.String) string {
		if v == nil || *v == "" {
			return "0"
		}
		return v.String()
	}
	out := Partial{
		AltmetricScore:    count(r.Score),
		AltmetricNews:     count(r.News),
		AltmetricFacebook: count(r.Facebook),
		AltmetricBlogs:    count(r.Blogs),
		AltmetricGPlus:    count(r.GooglePlus),
		AltmetricTwitter:  count(r.Twitter),
		AltmetricSubjects: "",
	}
	if r.Subjects != nil {
		subjects := make([]string, len(*r.Subjects))
		for i, s := range *r.Subjects {
			subjects[i] = s.String()
		}
		out[AltmetricSubjects] = strings.Join(subjects, ",")
	}
	return out
}

// Fetch returns the Altmetric counts for doi, or an empty Partial when the
// DOI is unknown to Altmetric or the request fails.
func (a *Altmetric) Fetch(ctx context.Context, doi string) Partial {
	u := fmt.Sprintf("%s/doi/%s", a.baseURL, escapePath(doi))
	if a.apiKey != "" {
		u += "?key=" + url.QueryEscape(a.apiKey)
	}

	body, err := a.http.GetBody(ctx, u, nil)
	if err != nil {
		a.degrade(doi, err)
		return Partial{}
	}

	var resp AltmetricResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		a.degrade(doi, fmt.Errorf("%w: %v", transport.ErrInvalidResponse, err))
		return Partial{}
	}
	return resp.Partial()
}
