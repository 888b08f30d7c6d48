package registry

import (
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/flex"
)

// LiteratureResponse is one page of the literature search.
type LiteratureResponse struct {
	Count   int                `json:"count"`
	Limit   int                `json:"limit"`
	Results []LiteratureResult `json:"results"`
}

// LiteratureResult is a raw literature entry. Pointer fields distinguish an
// absent key from an empty value.
type LiteratureResult struct {
	ID          flex.String    `json:"id"`
	Created     string         `json:"created"`
	Identifiers *Identifiers   `json:"identifiers"`
	Authors     *[]Author      `json:"authors"`
	Source      *string        `json:"source"`
	Title       *string        `json:"title"`
	Year        *flex.String   `json:"year"`
	Websites    *[]flex.String `json:"websites"`
}

// Identifiers holds the structured identifiers of a literature entry.
type Identifiers struct {
	DOI []string `json:"doi"`
}

// Author is one entry of a literature author list.
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DatasetSearchResponse is the dataset free-text search result.
type DatasetSearchResponse struct {
	Count   int             `json:"count"`
	Results []DatasetResult `json:"results"`
}

// DatasetResult is one dataset hit.
type DatasetResult struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}
