package library

import (
	"strings"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/doi"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/table"
)

// Item is a top-level library item.
type Item struct {
	Key  string   `json:"key"`
	Data ItemData `json:"data"`
}

// ItemData holds the item fields that are exported.
type ItemData struct {
	Key              string    `json:"key"`
	ItemType         string    `json:"itemType"`
	Creators         []Creator `json:"creators"`
	Title            string    `json:"title"`
	PublicationTitle string    `json:"publicationTitle"`
	Date             string    `json:"date"`
	LibraryCatalog   string    `json:"libraryCatalog"`
	DOI              string    `json:"DOI"`
	ISBN             string    `json:"ISBN"`
	ISSN             string    `json:"ISSN"`
	Extra            string    `json:"extra"`
	Archive          string    `json:"archive"`
	Tags             []Tag     `json:"tags"`
}

// Creator is an author, editor or other contributor.
type Creator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

// Tag is a library tag.
type Tag struct {
	Tag string `json:"tag"`
}

// Column names of a library table. Archive holds the registry id of items
// already matched to the registry.
const (
	ColKey              = "key"
	ColType             = "type"
	ColCreators         = "creators"
	ColTitle            = "title"
	ColPublicationTitle = "publicationTitle"
	ColDate             = "date"
	ColLibraryCatalog   = "libraryCatalog"
	ColDOI              = "DOI"
	ColISBN             = "ISBN"
	ColISSN             = "ISSN"
	ColExtra            = "extra"
	ColTags             = "tags"
	ColArchive          = "archive"
)

// Columns is the header of a library table.
var Columns = []string{
	ColKey, ColType, ColCreators, ColTitle, ColPublicationTitle, ColDate,
	ColLibraryCatalog, ColDOI, ColISBN, ColISSN, ColExtra, ColTags, ColArchive,
}

// relevantTypes are the item types that carry publication metrics.
var relevantTypes = map[string]bool{
	"journalArticle":  true,
	"conferencePaper": true,
}

// IsRelevant reports whether the item is a journal article or conference
// paper.
func IsRelevant(it Item) bool {
	return relevantTypes[it.Data.ItemType]
}

// FormatCreators renders every creator as "first last", joined by "; ".
func FormatCreators(creators []Creator) string {
	names := make([]string, len(creators))
	for i, c := range creators {
		names[i] = c.FirstName + " " + c.LastName
	}
	return strings.Join(names, "; ")
}

// FormatTags joins tag names with "; ".
func FormatTags(tags []Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Tag
	}
	return strings.Join(names, "; ")
}

// Row renders the item. An empty DOI field is recovered from a DOI written
// into the extra field.
func (it Item) Row() table.Row {
	d := it.Data
	key := d.Key
	if key == "" {
		key = it.Key
	}
	itemDOI := strings.TrimSpace(d.DOI)
	if itemDOI == "" {
		itemDOI = doi.Find(d.Extra)
	}
	return table.Row{
		ColKey:              key,
		ColType:             d.ItemType,
		ColCreators:         FormatCreators(d.Creators),
		ColTitle:            d.Title,
		ColPublicationTitle: d.PublicationTitle,
		ColDate:             d.Date,
		ColLibraryCatalog:   d.LibraryCatalog,
		ColDOI:              itemDOI,
		ColISBN:             d.ISBN,
		ColISSN:             d.ISSN,
		ColExtra:            d.Extra,
		ColTags:             FormatTags(d.Tags),
		ColArchive:          d.Archive,
	}
}

// ToTable renders the relevant items.
func ToTable(items []Item) *table.Table {
	t := table.New(Columns...)
	for _, it := range items {
		if IsRelevant(it) {
			t.Append(it.Row())
		}
	}
	return t
}

// DOIs returns the distinct non-empty values of column in first-seen order.
// Spellings that clean to the same DOI count once.
func DOIs(t *table.Table, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range t.Column(column) {
		v = strings.TrimSpace(v)
		k := doi.Clean(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
