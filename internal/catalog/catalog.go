// Package catalog provides read-only access to external job postings. Two
// backends exist: CSV files dropped into the data directory by the scraping
// pipeline, and a Postgres table the pipeline can write into directly. Both
// re-read on every call; the catalogs are owned by the ingestion process and
// this bot never caches or mutates them.
package catalog

import (
	"context"

	"github.com/maabuz/ishbot/internal/model"
)

// Loader reads postings for a source selector. Order is backing-collection
// order for single sources; model.SourceAll concatenates the named sources in
// model.NamedSources order. A missing backing collection yields an empty
// sequence, not an error.
type Loader interface {
	Load(ctx context.Context, src model.Source) ([]model.JobPosting, error)
}
