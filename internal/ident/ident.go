// Package ident defines the publication identifier used across the pipeline.
//
// An Identifier holds exactly one authoritative form at a time: a registry
// key, a DOI (with the textual encoding it arrived in), or the unresolved
// marker. Forms are ordered by strength and Promote only ever moves an
// identifier towards a stronger form.
package ident

import (
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
)

// UnresolvedMarker is written to output in place of a registry key when
// resolution failed, so the row stays visible for manual review.
const UnresolvedMarker = "UNRESOLVED"

// Kind is the form of an Identifier, ordered weakest first.
type Kind int

const (
	KindUnresolved Kind = iota
	KindDOI
	KindRegistryKey
)

func (k Kind) String() string {
	switch k {
	case KindDOI:
		return "doi"
	case KindRegistryKey:
		return "registry_key"
	default:
		return "unresolved"
	}
}

// Identifier is a tagged union of RegistryKey, DOI and Unresolved.
// The zero value is Unresolved.
type Identifier struct {
	kind     Kind
	value    string
	encoding doi.Encoding
}

// RegistryKey returns an identifier for a canonical registry key.
// An empty key yields Unresolved.
func RegistryKey(key string) Identifier {
	if key == "" {
		return Unresolved()
	}
	return Identifier{kind: KindRegistryKey, value: key}
}

// DOI returns an identifier for a raw DOI string, recording its encoding.
// An empty string yields Unresolved.
func DOI(raw string) Identifier {
	if raw == "" {
		return Unresolved()
	}
	return Identifier{kind: KindDOI, value: raw, encoding: doi.Detect(raw)}
}

// Unresolved returns the unresolved marker identifier.
func Unresolved() Identifier {
	return Identifier{}
}

func (i Identifier) Kind() Kind { return i.kind }

// Value returns the key or raw DOI; empty for Unresolved.
func (i Identifier) Value() string { return i.value }

// Encoding is only meaningful for KindDOI.
func (i Identifier) Encoding() doi.Encoding { return i.encoding }

// IsResolved reports whether the identifier is a registry key.
func (i Identifier) IsResolved() bool { return i.kind == KindRegistryKey }

// Promote returns next if it is a strictly stronger form than i, otherwise i.
// Resolution never moves an identifier back to a weaker form.
func (i Identifier) Promote(next Identifier) Identifier {
	if next.kind > i.kind {
		return next
	}
	return i
}

// String renders the identifier for tabular output: the key or DOI value,
// or UnresolvedMarker.
func (i Identifier) String() string {
	if i.kind == KindUnresolved {
		return UnresolvedMarker
	}
	return i.value
}
