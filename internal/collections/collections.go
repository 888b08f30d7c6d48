// Package collections discovers the GBIF registry keys of the Atlas of
// Living Australia's data resources.
package collections

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"
	"github.com/sourcegraph/conc/iter"
	"github.com/tidwall/gjson"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// FacetLimit caps the number of data resources listed.
const FacetLimit = 1000

// Client queries the biocache facet service and the collectory.
type Client struct {
	http           *transport.Client
	facetsURL      string
	collectionsURL string
	logger         *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport sets the HTTP transport.
func WithTransport(tc *transport.Client) ClientOption {
	return func(c *Client) {
		c.http = tc
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client. collectionsURL is the data resource base URL,
// to which a resource uid is appended.
func NewClient(facetsURL, collectionsURL string, opts ...ClientOption) *Client {
	c := &Client{
		facetsURL:      facetsURL,
		collectionsURL: collectionsURL,
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = transport.New("ala", transport.WithLogger(c.logger))
	}
	return c
}

// DataResources lists data resource uids ("dr123") from the
// data_resource_uid facet.
func (c *Client) DataResources(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("facets", "data_resource_uid")
	q.Set("flimit", fmt.Sprint(FacetLimit))

	body, err := c.http.GetBody(ctx, c.facetsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing data resources: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: facet body is not JSON", transport.ErrInvalidResponse)
	}

	var uids []string
	for _, code := range gjson.GetBytes(body, "0.fieldResult.#.i18nCode").Array() {
		// i18nCode is "dataResource.dr123".
		parts := strings.Split(code.String(), ".")
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		uids = append(uids, parts[1])
	}
	return uids, nil
}

type dataResource struct {
	UID             string  `json:"uid"`
	Name            string  `json:"name"`
	GBIFRegistryKey *string `json:"gbifRegistryKey"`
}

// RegistryKey returns the GBIF registry key of one data resource, or ""
// when it has none.
func (c *Client) RegistryKey(ctx context.Context, uid string) (string, error) {
	body, err := c.http.GetBody(ctx, c.collectionsURL+url.PathEscape(uid), nil)
	if err != nil {
		return "", err
	}
	var dr dataResource
	if err := json.Unmarshal(body, &dr); err != nil {
		return "", fmt.Errorf("%w: data resource %s: %v", transport.ErrInvalidResponse, uid, err)
	}
	if dr.GBIFRegistryKey == nil {
		return "", nil
	}
	return strings.TrimSpace(*dr.GBIFRegistryKey), nil
}

// RegistryKeys returns the distinct registry keys of every data resource,
// in facet order. Resources that fail or have no key are logged and
// skipped.
func (c *Client) RegistryKeys(ctx context.Context, workers int) ([]string, error) {
	uids, err := c.DataResources(ctx)
	if err != nil {
		return nil, err
	}

	mapper := iter.Mapper[string, string]{MaxGoroutines: max(workers, 1)}
	keys := mapper.Map(uids, func(uid *string) string {
		key, err := c.RegistryKey(ctx, *uid)
		if err != nil {
			c.logger.Warn("no registry key", "resource", *uid, "err", err)
			return ""
		}
		if key == "" {
			c.logger.Debug("no registry key", "resource", *uid)
		}
		return key
	})

	seen := make(map[string]bool)
	var out []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}
