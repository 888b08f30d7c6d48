package registry

import (
	"context"
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/sourcegraph/conc/iter"
)

// Truncation reports a literature search whose total exceeded one page.
type Truncation struct {
	Key   string
	Count int
	Limit int
}

func (t Truncation) Error() string {
	return fmt.Sprintf("registry key %s: %d results exceed page limit %d", t.Key, t.Count, t.Limit)
}

// FetchResult is the literature fetched for one registry key.
type FetchResult struct {
	Key       string
	Records   []Record
	Truncated *Truncation
	Err       error
}

// Fetch retrieves the literature records citing key. A result set larger
// than one page is returned with Truncated set; the records on the first
// page are kept.
func (c *Client) Fetch(ctx context.Context, key string) (FetchResult, error) {
	res := FetchResult{Key: key}

	resp, err := c.SearchLiterature(ctx, key)
	if err != nil {
		return res, fmt.Errorf("fetching literature for %s: %w", key, err)
	}

	if resp.Count > len(resp.Results) {
		res.Truncated = &Truncation{Key: key, Count: resp.Count, Limit: PageLimit}
		c.logger.Warn("literature search truncated", "key", key, "count", resp.Count, "limit", PageLimit)
	}

	res.Records = make([]Record, 0, len(resp.Results))
	for _, raw := range resp.Results {
		res.Records = append(res.Records, ParseRecord(raw))
	}
	return res, nil
}

// FetchAll fetches every key with at most workers requests in flight.
// Results keep the order of keys; a failed key carries its error in Err.
func (c *Client) FetchAll(ctx context.Context, keys []string, workers int) []FetchResult {
	mapper := iter.Mapper[string, FetchResult]{MaxGoroutines: max(workers, 1)}
	return mapper.Map(keys, func(key *string) FetchResult {
		res, err := c.Fetch(ctx, *key)
		if err != nil {
			c.logger.Warn("registry fetch failed", "key", *key, "err", err)
			res.Err = err
		}
		return res
	})
}

// ParseRecord converts a raw literature entry. A structured DOI takes
// precedence; only entries without one get descriptive fields.
func ParseRecord(raw LiteratureResult) Record {
	rec := Record{ID: raw.ID.String()}
	if raw.Created != "" {
		if t, err := dateparse.ParseAny(raw.Created); err == nil {
			rec.Created = t
		}
	}

	if raw.Identifiers != nil && len(raw.Identifiers.DOI) > 0 && raw.Identifiers.DOI[0] != "" {
		rec.DOI = raw.Identifiers.DOI[0]
		return rec
	}

	d := &Details{}
	if raw.Authors != nil {
		d.FirstAuthor = FirstAuthor(*raw.Authors)
	}
	if raw.Source != nil {
		d.Source = *raw.Source
	}
	if raw.Title != nil {
		d.Title = *raw.Title
	}
	if raw.Year != nil {
		if y, ok := raw.Year.Int(); ok {
			d.Year = YearOf(y)
		}
	}
	if raw.Websites != nil {
		sites := make([]string, len(*raw.Websites))
		for i, s := range *raw.Websites {
			sites[i] = s.String()
		}
		d.Websites = JoinWebsites(sites)
	}
	rec.Details = d
	return rec
}

// Records flattens the records of every successful result.
func Records(results []FetchResult) []Record {
	var out []Record
	for _, r := range results {
		out = append(out, r.Records...)
	}
	return out
}
