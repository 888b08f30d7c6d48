package registry

import (
	"strconv"
	"strings"
	"time"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

// Column names of the registry records table.
const (
	ColID          = "id"
	ColCreated     = "created"
	ColDOI         = "doi"
	ColFirstAuthor = "first_author"
	ColSource      = "source"
	ColTitle       = "title"
	ColYear        = "year"
	ColWebsites    = "websites"
)

// RecordColumns is the fixed header of a records table.
var RecordColumns = []string{
	ColID, ColCreated, ColDOI, ColFirstAuthor, ColSource, ColTitle, ColYear, ColWebsites,
}

// Year is an optional publication year. The zero value is absent and
// renders as an empty cell, which is distinct from year 0.
type Year struct {
	Value int
	Valid bool
}

// YearOf returns a present year.
func YearOf(v int) Year {
	return Year{Value: v, Valid: true}
}

func (y Year) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Value)
}

// Details are the descriptive fields of a record that has no DOI.
type Details struct {
	FirstAuthor string
	Source      string
	Title       string
	Year        Year
	Websites    string
}

// Record is one literature entry citing a dataset. A record either carries
// a DOI and no Details, or Details and no DOI.
type Record struct {
	ID      string
	Created time.Time
	DOI     string
	Details *Details
}

// HasDOI reports whether the record is DOI-addressable.
func (r Record) HasDOI() bool {
	return r.DOI != ""
}

// Row renders the record with every column of RecordColumns present.
func (r Record) Row() table.Row {
	row := table.Row{
		ColID:          r.ID,
		ColCreated:     "",
		ColDOI:         r.DOI,
		ColFirstAuthor: "",
		ColSource:      "",
		ColTitle:       "",
		ColYear:        "",
		ColWebsites:    "",
	}
	if !r.Created.IsZero() {
		row[ColCreated] = r.Created.UTC().Format(time.RFC3339)
	}
	if d := r.Details; d != nil {
		row[ColFirstAuthor] = d.FirstAuthor
		row[ColSource] = d.Source
		row[ColTitle] = d.Title
		row[ColYear] = d.Year.String()
		row[ColWebsites] = d.Websites
	}
	return row
}

// RecordsTable renders records as a table keyed by id with exact duplicate
// rows removed.
func RecordsTable(records []Record) *table.Table {
	t := table.New(RecordColumns...)
	for _, r := range records {
		t.Append(r.Row())
	}
	t.Dedupe()
	return t
}

// FirstAuthor formats the first author as "first last". Either part may be
// empty, leaving the separating space in place.
func FirstAuthor(authors []Author) string {
	if len(authors) == 0 {
		return ""
	}
	return authors[0].FirstName + " " + authors[0].LastName
}

// JoinWebsites flattens a website list into one comma-separated cell.
func JoinWebsites(sites []string) string {
	return strings.Join(sites, ",")
}
