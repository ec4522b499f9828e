package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/internal/model"
)

// Catalog file names inside the data directory. LegacyFile backs the default
// selector; the rest are the named sources.
const (
	LegacyFile   = "jobs.csv"
	HHFile       = "hh.csv"
	LinkedInFile = "linkedin.csv"
	OLXFile      = "olx.csv"
	IshUZFile    = "ishuz.csv"
)

var sourceFiles = map[model.Source]string{
	model.SourceHH:       HHFile,
	model.SourceLinkedIn: LinkedInFile,
	model.SourceOLX:      OLXFile,
	model.SourceIshUZ:    IshUZFile,
}

// CSVLoader reads catalogs from header-addressed CSV files in a directory.
type CSVLoader struct {
	dir string
}

// NewCSVLoader creates a loader over the given data directory.
func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{dir: dir}
}

// Load implements Loader. Rows whose job_id does not parse as an integer are
// skipped silently.
func (l *CSVLoader) Load(ctx context.Context, src model.Source) ([]model.JobPosting, error) {
	switch src {
	case model.SourceAll:
		var all []model.JobPosting
		for _, named := range model.NamedSources {
			jobs, err := l.readFile(ctx, sourceFiles[named])
			if err != nil {
				return nil, err
			}
			all = append(all, jobs...)
		}
		return all, nil
	case model.SourceDefault:
		return l.readFile(ctx, LegacyFile)
	default:
		name, ok := sourceFiles[src]
		if !ok {
			name = LegacyFile
		}
		return l.readFile(ctx, name)
	}
}

func (l *CSVLoader) readFile(ctx context.Context, name string) ([]model.JobPosting, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open catalog %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog header %s: %w", name, err)
	}
	cols := indexColumns(header)

	var jobs []model.JobPosting
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row %s: %w", name, err)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(cols.get(row, "job_id")), 10, 64)
		if err != nil {
			skipped++
			continue
		}
		jobs = append(jobs, model.JobPosting{
			ID:          id,
			Name:        cols.get(row, "name"),
			Company:     cols.get(row, "company"),
			Location:    cols.get(row, "location"),
			Skills:      cols.get(row, "skills"),
			Description: cols.get(row, "description_html"),
			Link:        cols.get(row, "link"),
		})
	}

	logger.Cat.LogAttrs(ctx, slog.LevelDebug, "catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("source", name),
		slog.Int("count", len(jobs)),
		slog.Int("skipped", skipped),
	)
	return jobs, nil
}

type columnMap map[string]int

func indexColumns(header []string) columnMap {
	cols := make(columnMap, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func (m columnMap) get(row []string, name string) string {
	i, ok := m[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
