package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/internal/catalog"
)

// Data file names inside the data directory.
const (
	UsersFile     = "users.json"
	PasswordsFile = "passwords.csv"
)

const catalogHeader = "job_id,name,company,location,skills,description_html,link\n"

// SeedPassword is the access password provisioned on first run.
const SeedPassword = "MAAB-2025"

var sampleJobRow = `1,Backend Developer,MAAB INNOVATION,Tashkent,"Go, SQL, Docker","<p>We are looking for a <strong>backend developer</strong>.</p>",https://maab.uz/careers
`

// Provisioner creates the data directory and its seed files on first run.
// Existing files are never touched, so operator edits survive restarts.
type Provisioner struct {
	dir string
}

// NewProvisioner builds a seeder over the given data directory.
func NewProvisioner(dir string) *Provisioner {
	return &Provisioner{dir: dir}
}

// Seed implements bootstrap.Seeder.
func (p *Provisioner) Seed(ctx context.Context) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", p.dir, err)
	}

	files := map[string]string{
		UsersFile:            "{}\n",
		PasswordsFile:        "password\n" + SeedPassword + "\n",
		catalog.LegacyFile:     catalogHeader + sampleJobRow,
		catalog.HHFile:         catalogHeader,
		catalog.LinkedInFile:   catalogHeader,
		catalog.OLXFile:        catalogHeader,
		catalog.IshUZFile:      catalogHeader,
	}

	created := 0
	for name, content := range files {
		path := filepath.Join(p.dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}
		created++
	}

	logger.SEED.LogAttrs(ctx, slog.LevelInfo, "data dir ready",
		slog.String("event", "seed.complete"),
		slog.String("dir", p.dir),
		slog.Int("created", created),
	)
	return nil
}
