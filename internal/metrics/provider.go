package metrics

import (
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/transport"
)

// provider holds what every metrics client shares.
type provider struct {
	name   string
	http   *transport.Client
	logger *log.Logger
}

// Option configures a metrics client.
type Option func(*provider)

// WithTransport sets the HTTP transport.
func WithTransport(tc *transport.Client) Option {
	return func(p *provider) {
		p.http = tc
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *provider) {
		p.logger = l
	}
}

func newProvider(name string, opts []Option) provider {
	p := provider{name: name, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&p)
	}
	if p.http == nil {
		p.http = transport.New(name, transport.WithLogger(p.logger))
	}
	return p
}

// degrade logs a failed lookup. Not-found is routine and logged at debug.
func (p provider) degrade(subject string, err error) {
	if transport.IsNotFound(err) {
		p.logger.Debug("no metrics", "provider", p.name, "for", subject)
		return
	}
	p.logger.Warn("provider failed", "provider", p.name, "for", subject, "err", err)
}

// escapePath escapes each "/"-separated segment of a DOI or ISSN so it can
// be appended to a URL path.
func escapePath(s string) string {
	segs := strings.Split(s, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
