package registry

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/ident"
)

var (
	// ErrAmbiguous indicates a dataset search that did not return exactly
	// one result.
	ErrAmbiguous = errors.New("ambiguous resolution")

	// ErrUnresolvable indicates a candidate with no usable identifier.
	ErrUnresolvable = errors.New("unresolvable identifier")
)

// Candidate is a weakly identified publication. Either field may be empty.
type Candidate struct {
	RegistryKey string
	DOI         string
}

// Strategy names the step of the cascade that produced a resolution.
type Strategy string

const (
	StrategyKnownKey Strategy = "known_key"
	StrategyRedirect Strategy = "doi_redirect"
	StrategySearch   Strategy = "dataset_search"
	StrategyNone     Strategy = "none"
)

// Reasons an identifier stayed unresolved.
const (
	ReasonAmbiguous    = "ambiguous"
	ReasonUnresolvable = "unresolvable"
	ReasonLookupFailed = "lookup_failed"
)

// Resolution is the outcome of resolving one candidate.
type Resolution struct {
	Candidate  Candidate
	Identifier ident.Identifier
	Strategy   Strategy
	Reason     string
	Err        error
}

// Resolved reports whether a registry key was found.
func (r Resolution) Resolved() bool {
	return r.Identifier.IsResolved()
}

// Resolver runs the resolution cascade: known key, DOI redirect, then
// dataset search on the DOI's last path segment.
type Resolver struct {
	client *Client
}

// NewResolver creates a resolver backed by client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the strongest identifier the cascade can establish.
// Failures never escape; they yield ident.Unresolved.
func (r *Resolver) Resolve(ctx context.Context, c Candidate) ident.Identifier {
	return r.Explain(ctx, c).Identifier
}

// Explain resolves c and records which strategy decided the outcome.
func (r *Resolver) Explain(ctx context.Context, c Candidate) Resolution {
	res := Resolution{Candidate: c}

	key := strings.TrimSpace(c.RegistryKey)
	raw := strings.TrimSpace(c.DOI)

	if key != "" {
		res.Identifier = ident.RegistryKey(key)
		res.Strategy = StrategyKnownKey
		return res
	}

	if raw == "" {
		return r.unresolved(res, StrategyNone, ReasonUnresolvable, ErrUnresolvable)
	}

	id := ident.DOI(raw)
	res.Identifier = id

	normalized, _ := doi.Normalize(raw)
	landing, err := r.client.FollowDOI(ctx, normalized)
	switch {
	case err != nil:
		r.client.logger.Debug("doi redirect failed", "doi", raw, "err", err)
	case r.client.IsRegistryHost(landing):
		if k := path.Base(strings.TrimRight(landing.Path, "/")); k != "" && k != "." && k != "/" {
			res.Identifier = id.Promote(ident.RegistryKey(k))
			res.Strategy = StrategyRedirect
			return res
		}
	default:
		r.client.logger.Debug("doi landed off registry", "doi", raw, "host", landing.Host)
	}

	query := doi.LastSegment(raw)
	if query == "" {
		return r.unresolved(res, StrategySearch, ReasonUnresolvable,
			fmt.Errorf("%w: no search term in %q", ErrUnresolvable, raw))
	}

	found, err := r.client.SearchDatasets(ctx, query)
	if err != nil {
		return r.unresolved(res, StrategySearch, ReasonLookupFailed, err)
	}
	if found.Count != 1 || len(found.Results) != 1 || found.Results[0].Key == "" {
		return r.unresolved(res, StrategySearch, ReasonAmbiguous,
			fmt.Errorf("%w: search %q returned %d results", ErrAmbiguous, query, found.Count))
	}

	res.Identifier = id.Promote(ident.RegistryKey(found.Results[0].Key))
	res.Strategy = StrategySearch
	return res
}

func (r *Resolver) unresolved(res Resolution, s Strategy, reason string, err error) Resolution {
	res.Identifier = ident.Unresolved()
	res.Strategy = s
	res.Reason = reason
	res.Err = err
	r.client.logger.Warn("identifier unresolved",
		"key", res.Candidate.RegistryKey, "doi", res.Candidate.DOI, "reason", reason, "err", err)
	return res
}

// ResolveAll resolves candidates with at most workers in flight. Results
// keep the input order.
func (r *Resolver) ResolveAll(ctx context.Context, candidates []Candidate, workers int) []Resolution {
	mapper := iter.Mapper[Candidate, Resolution]{MaxGoroutines: max(workers, 1)}
	return mapper.Map(candidates, func(c *Candidate) Resolution {
		return r.Explain(ctx, *c)
	})
}
