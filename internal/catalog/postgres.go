package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/internal/model"
)

// legacySourceName is the source column value used for postings that belong
// to the default catalog rather than a named one.
const legacySourceName = "legacy"

// SQLLoader reads catalogs from the jobs table populated by the scraping
// pipeline. Row order within a source is insertion order (serial primary key).
type SQLLoader struct {
	db *sqlx.DB
}

// NewSQLLoader creates a loader over an established connection pool.
func NewSQLLoader(db *sqlx.DB) *SQLLoader {
	return &SQLLoader{db: db}
}

const selectJobs = `
SELECT job_id, name, company, location, skills, description, link
FROM jobs
WHERE source = $1
ORDER BY id`

// Load implements Loader. The SourceAll selector issues one query per named
// source to keep the fixed source order instead of interleaving by id.
func (l *SQLLoader) Load(ctx context.Context, src model.Source) ([]model.JobPosting, error) {
	switch src {
	case model.SourceAll:
		var all []model.JobPosting
		for _, named := range model.NamedSources {
			jobs, err := l.selectSource(ctx, string(named))
			if err != nil {
				return nil, err
			}
			all = append(all, jobs...)
		}
		return all, nil
	case model.SourceDefault:
		return l.selectSource(ctx, legacySourceName)
	default:
		return l.selectSource(ctx, string(src))
	}
}

func (l *SQLLoader) selectSource(ctx context.Context, source string) ([]model.JobPosting, error) {
	var jobs []model.JobPosting
	if err := l.db.SelectContext(ctx, &jobs, selectJobs, source); err != nil {
		return nil, fmt.Errorf("select jobs for %s: %w", source, err)
	}
	logger.Cat.LogAttrs(ctx, slog.LevelDebug, "catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("source", source),
		slog.Int("count", len(jobs)),
	)
	return jobs, nil
}
