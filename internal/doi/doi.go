// Package doi canonicalizes DOI strings that arrive in several textual
// encodings into a form the DOI resolver can redirect.
package doi

import (
	"strings"
)

const (
	// ResolverDomain is the DOI resolver's host name.
	ResolverDomain = "doi.org"

	// ResolverHost is the resolver host with scheme and no DOI scheme marker.
	ResolverHost = "http://" + ResolverDomain + "/"

	// CanonicalPrefix is the fully-qualified resolver prefix every
	// normalized DOI URL starts with.
	CanonicalPrefix = ResolverHost + "doi:"

	marker = "doi"
)

// Encoding describes the textual form a raw DOI arrived in.
type Encoding int

const (
	// Bare is a raw DOI such as "10.1000/xyz".
	Bare Encoding = iota
	// Prefixed carries a "doi" marker but no usable resolver prefix,
	// e.g. "doi:10.1000/xyz".
	Prefixed
	// ResolverPrefixed already starts with CanonicalPrefix.
	ResolverPrefixed
	// MalformedDoubled repeats the resolver domain, e.g.
	// "http://doi.org/doi.org/10.1000/xyz".
	MalformedDoubled
)

func (e Encoding) String() string {
	switch e {
	case Bare:
		return "bare"
	case Prefixed:
		return "prefixed"
	case ResolverPrefixed:
		return "resolver_prefixed"
	case MalformedDoubled:
		return "malformed_doubled"
	default:
		return "unknown"
	}
}

// Normalize turns a raw DOI-like string into a resolver URL and reports the
// encoding it detected. Rules are checked in priority order and the first
// match wins:
//
//  1. resolver domain appears twice: keep the last two path segments and
//     rebuild under CanonicalPrefix
//  2. already contains CanonicalPrefix: unchanged
//  3. contains "doi" anywhere: prepend ResolverHost
//  4. otherwise: prepend CanonicalPrefix
//
// Normalize is idempotent on canonical input.
func Normalize(raw string) (string, Encoding) {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.Count(raw, ResolverDomain) >= 2:
		segs := strings.Split(raw, "/")
		if len(segs) > 2 {
			segs = segs[len(segs)-2:]
		}
		return CanonicalPrefix + strings.Join(segs, "/"), MalformedDoubled
	case strings.Contains(raw, CanonicalPrefix):
		return raw, ResolverPrefixed
	case strings.Contains(raw, marker):
		return ResolverHost + raw, Prefixed
	default:
		return CanonicalPrefix + raw, Bare
	}
}

// Detect reports the encoding of raw without building the URL.
func Detect(raw string) Encoding {
	_, enc := Normalize(raw)
	return enc
}

// LastSegment returns the final "/"-separated segment of raw.
// For "10.15468/dl.abc" this is "dl.abc".
func LastSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// urlPrefixes are stripped by Strip, longest first.
var urlPrefixes = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
	"dx.doi.org/",
	"doi.org/",
	"doi:",
}

// Strip removes resolver URL and "doi:" prefixes, keeping the DOI's case.
func Strip(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		trimmed := false
		for _, p := range urlPrefixes {
			if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
				s = strings.TrimSpace(s[len(p):])
				trimmed = true
				break
			}
		}
		if !trimmed {
			return s
		}
	}
}

// Clean normalizes a DOI to a comparison key: prefixes stripped, lowercased.
// DOIs are case-insensitive, so two spellings of one DOI share a key.
func Clean(raw string) string {
	return strings.ToLower(Strip(raw))
}
