package metrics

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// PlumX reads citation and mention counts from the PlumX analytics API.
type PlumX struct {
	provider
	baseURL string
	apiKey  string
}

// NewPlumX creates a PlumX client.
func NewPlumX(baseURL, apiKey string, opts ...Option) *PlumX {
	return &PlumX{
		provider: newProvider("plumx", opts),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
	}
}

// plumxBuckets maps count_types names within a category to columns.
var plumxBuckets = map[string]map[string]string{
	"mention": {
		"ALL_BLOG_COUNT": PlumXBlogs,
		"NEWS_COUNT":     PlumXNews,
	},
	"socialMedia": {
		"TWEET_COUNT":    PlumXTweets,
		"FACEBOOK_COUNT": PlumXFacebook,
	},
}

// Fetch returns the PlumX counts for doi. Categories and buckets absent
// from the response contribute no key.
func (p *PlumX) Fetch(ctx context.Context, doi string) Partial {
	u := fmt.Sprintf("%s/doi/%s?apiKey=%s", p.baseURL, escapePath(doi), url.QueryEscape(p.apiKey))
	body, err := p.http.GetBody(ctx, u, nil)
	if err != nil {
		p.degrade(doi, err)
		return Partial{}
	}
	out, err := parsePlumX(body)
	if err != nil {
		p.degrade(doi, err)
		return Partial{}
	}
	return out
}

func parsePlumX(body []byte) (Partial, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: plumx body is not JSON", transport.ErrInvalidResponse)
	}

	out := Partial{}
	gjson.GetBytes(body, "count_categories").ForEach(func(_, cat gjson.Result) bool {
		name := cat.Get("name").String()
		if name == "citation" {
			if total := cat.Get("total"); total.Exists() {
				out[PlumXCitations] = total.String()
			}
			return true
		}
		buckets, ok := plumxBuckets[name]
		if !ok {
			return true
		}
		cat.Get("count_types").ForEach(func(_, ct gjson.Result) bool {
			col, ok := buckets[ct.Get("name").String()]
			if total := ct.Get("total"); ok && total.Exists() {
				out[col] = total.String()
			}
			return true
		})
		return true
	})
	return out, nil
}
