package model

// Source selects which external job catalog to read.
type Source string

const (
	// SourceDefault is the legacy single-file catalog.
	SourceDefault Source = ""
	// SourceAll concatenates every named source in fixed order.
	SourceAll Source = "all"

	SourceHH       Source = "hh"
	SourceLinkedIn Source = "linkedin"
	SourceOLX      Source = "olx"
	SourceIshUZ    Source = "ishuz"
)

// NamedSources lists the named catalogs in the fixed order used by SourceAll.
var NamedSources = []Source{SourceHH, SourceLinkedIn, SourceOLX, SourceIshUZ}

// ParseSource maps a callback payload to a Source. Unknown names fall back to
// the legacy default catalog.
func ParseSource(raw string) Source {
	switch Source(raw) {
	case SourceAll:
		return SourceAll
	case SourceHH, SourceLinkedIn, SourceOLX, SourceIshUZ:
		return Source(raw)
	}
	return SourceDefault
}

// JobPosting is a read-only catalog row. ID is unique only within its source;
// rows from different sources may share an ID and are treated as independent.
type JobPosting struct {
	ID          int64  `db:"job_id"`
	Name        string `db:"name"`
	Company     string `db:"company"`
	Location    string `db:"location"`
	Skills      string `db:"skills"`
	Description string `db:"description"`
	Link        string `db:"link"`
}

// FindJob returns the first posting with the given id, in sequence order.
func FindJob(jobs []JobPosting, id int64) (JobPosting, bool) {
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobPosting{}, false
}
