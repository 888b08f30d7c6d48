// Package metrics fetches publication metrics from PlumX, Altmetric and
// Scopus and combines them into one partial record per DOI.
package metrics

// Provider-qualified column names.
const (
	PlumXCitations = "Citations [PlumX]"
	PlumXBlogs     = "Blogs [PlumX]"
	PlumXNews      = "News [PlumX]"
	PlumXTweets    = "Tweets [PlumX]"
	PlumXFacebook  = "Facebook [PlumX]"

	AltmetricScore    = "Score [Altmetric]"
	AltmetricNews     = "News [Altmetric]"
	AltmetricFacebook = "Facebook [Altmetric]"
	AltmetricBlogs    = "Blogs [Altmetric]"
	AltmetricGPlus    = "Google+ [Altmetric]"
	AltmetricTwitter  = "Twitter [Altmetric]"
	AltmetricSubjects = "Subjects [Altmetric]"

	ScopusJournal   = "Journal [Scopus]"
	ScopusCiteCount = "Cite count [Scopus]"
	ScopusEISSN     = "eISSN [Scopus]"
	ScopusISSN      = "ISSN [Scopus]"

	ScopusSJR  = "SJR [Scopus]"
	ScopusSNIP = "SNIP [Scopus]"
)

// ColDOI is the key column of a metrics row.
const ColDOI = "DOI"

// Columns is the preferred header order of a metrics table.
var Columns = []string{
	ColDOI,
	PlumXCitations, PlumXBlogs, PlumXNews, PlumXTweets, PlumXFacebook,
	AltmetricScore, AltmetricNews, AltmetricFacebook, AltmetricBlogs, AltmetricGPlus, AltmetricTwitter, AltmetricSubjects,
	ScopusJournal, ScopusCiteCount, ScopusEISSN, ScopusISSN,
	ScopusSJR, ScopusSNIP,
}

// Partial is the subset of columns one provider could supply. A provider
// that failed contributes an empty Partial, not empty values.
type Partial map[string]string

// Merge returns the key union of parts. On a key collision the later part
// wins.
func Merge(parts ...Partial) Partial {
	out := Partial{}
	for _, p := range parts {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}
