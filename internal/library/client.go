// Package library reads the reference-manager (Zotero group) library.
package library

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// PageSize is the number of items requested per page.
const PageSize = 100

// Client pages through the top-level items of a Zotero group library.
type Client struct {
	http      *transport.Client
	baseURL   string
	libraryID string
	apiKey    string
	logger    *log.Logger
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

// NewClient creates a client for the group library libraryID.
func NewClient(baseURL, libraryID, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		libraryID: libraryID,
		apiKey:    apiKey,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = transport.New("zotero", transport.WithLogger(c.logger))
	}
	return c
}

// Page fetches up to PageSize top-level items starting at start and
// returns them with the library's total item count.
func (c *Client) Page(ctx context.Context, start int) ([]Item, int, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(PageSize))
	q.Set("start", strconv.Itoa(start))
	u := fmt.Sprintf("%s/groups/%s/items/top?%s", c.baseURL, url.PathEscape(c.libraryID), q.Encode())

	header := http.Header{}
	header.Set("Zotero-API-Version", "3")
	if c.apiKey != "" {
		header.Set("Zotero-API-Key", c.apiKey)
	}

	resp, err := c.http.Get(ctx, u, header)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if err := transport.CheckStatus("zotero", resp); err != nil {
		return nil, 0, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, transport.MaxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: zotero: reading body: %v", transport.ErrNetworkError, err)
	}

	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, 0, fmt.Errorf("%w: zotero items: %v", transport.ErrInvalidResponse, err)
	}

	total, err := strconv.Atoi(resp.Header.Get("Total-Results"))
	if err != nil {
		total = start + len(items)
	}
	return items, total, nil
}

// All pages through the whole library. A transient failure after the first
// page stops paging and keeps the items read so far.
func (c *Client) All(ctx context.Context) ([]Item, error) {
	var all []Item
	for start := 0; ; start += PageSize {
		items, total, err := c.Page(ctx, start)
		if err != nil {
			if start > 0 && transport.IsTransient(err) {
				c.logger.Warn("library paging stopped early", "read", len(all), "err", err)
				return all, nil
			}
			return nil, fmt.Errorf("reading library page at %d: %w", start, err)
		}
		all = append(all, items...)
		c.logger.Debug("library page", "start", start, "items", len(items), "total", total)

		if len(items) == 0 || start+PageSize >= total {
			return all, nil
		}
	}
}
