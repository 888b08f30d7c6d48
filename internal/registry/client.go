// Package registry talks to the GBIF literature registry: it resolves
// publications to registry keys and fetches the literature citing a
// dataset key.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// PageLimit is the page size of a literature search. One page per key is
// expected to be enough; larger result sets are reported as truncated.
const PageLimit = 999

// Client queries the registry's literature search, dataset search and the
// DOI resolver.
type Client struct {
	http          *transport.Client
	literatureURL string
	datasetURL    string
	resolverURL   string
	webHost       string
	logger        *log.Logger
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

// NewClient creates a registry client for the given endpoints.
func NewClient(ep config.Endpoints, opts ...ClientOption) *Client {
	c := &Client{
		literatureURL: ep.Literature,
		datasetURL:    ep.DatasetSearch,
		resolverURL:   ep.Resolver,
		webHost:       ep.RegistryWebHost,
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = transport.New("gbif", transport.WithLogger(c.logger))
	}
	return c
}

// SearchLiterature fetches the single literature page citing datasetKey.
func (c *Client) SearchLiterature(ctx context.Context, datasetKey string) (*LiteratureResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(PageLimit))
	q.Set("contentType", "literature")
	q.Set("gbifDatasetKey", datasetKey)

	body, err := c.http.GetBody(ctx, c.literatureURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp LiteratureResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: literature search: %v", transport.ErrInvalidResponse, err)
	}
	return &resp, nil
}

// SearchDatasets runs a free-text dataset search.
func (c *Client) SearchDatasets(ctx context.Context, query string) (*DatasetSearchResponse, error) {
	body, err := c.http.GetBody(ctx, c.datasetURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}

	var resp DatasetSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: dataset search: %v", transport.ErrInvalidResponse, err)
	}
	return &resp, nil
}

// FollowDOI requests a normalized resolver URL, following redirects, and
// returns the final landing URL. The landing page's status is not checked;
// only where the redirect chain ends matters.
func (c *Client) FollowDOI(ctx context.Context, normalized string) (*url.URL, error) {
	target := normalized
	if c.resolverURL != "" && c.resolverURL != doi.ResolverHost {
		target = strings.Replace(normalized, doi.ResolverHost, c.resolverURL, 1)
	}

	resp, err := c.http.Get(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, transport.MaxBodyBytes))

	if resp.Request == nil || resp.Request.URL == nil {
		return nil, fmt.Errorf("%w: no final URL for %s", transport.ErrInvalidResponse, target)
	}
	return resp.Request.URL, nil
}

// IsRegistryHost reports whether u lands on the registry's web host.
func (c *Client) IsRegistryHost(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Host, c.webHost)
}
