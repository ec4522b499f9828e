// Package config layers bot specific settings on top of the core config.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/maabuz/ishbot/core/config"
	coredatabase "github.com/maabuz/ishbot/core/database"
)

// Catalog backend selectors.
const (
	CatalogCSV      = "csv"
	CatalogPostgres = "postgres"
)

// BotConfig holds settings specific to the job listing bot.
type BotConfig struct {
	// ChannelUsername is the public @username of the channel users must
	// join before registering. Empty disables the membership gate.
	ChannelUsername string `yaml:"channel_username" envconfig:"BOT_CHANNEL_USERNAME"`
	// ChannelID is the numeric chat ID, preferred over the username when set.
	ChannelID int64 `yaml:"channel_id" envconfig:"BOT_CHANNEL_ID"`

	// DataDir is the root for users.json, passwords.csv and the job CSVs.
	DataDir string `yaml:"data_dir" envconfig:"BOT_DATA_DIR"`

	CartLimit int `yaml:"cart_limit" envconfig:"BOT_CART_LIMIT"`
	PageSize  int `yaml:"page_size" envconfig:"BOT_PAGE_SIZE"`

	// CatalogBackend selects where job postings are read from: "csv" or "postgres".
	CatalogBackend string `yaml:"catalog_backend" envconfig:"BOT_CATALOG_BACKEND"`
}

// AppConfig is the full application configuration.
type AppConfig struct {
	Core     coreconfig.Config   `yaml:"core"`
	Bot      BotConfig           `yaml:"bot"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig satisfies cmd.ConfigCarrier.
func (c *AppConfig) CoreConfig() *coreconfig.Config { return &c.Core }

// Load reads the YAML file, applies environment overrides and validates.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeBot(&cfg.Bot); err != nil {
		return nil, err
	}
	if cfg.Bot.CatalogBackend == CatalogPostgres && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.host is required when bot.catalog_backend is 'postgres'")
	}
	return &cfg, nil
}

func normalizeBot(cfg *BotConfig) error {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.CartLimit <= 0 {
		cfg.CartLimit = 2000
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.CatalogBackend))
	if backend == "" {
		backend = CatalogCSV
	}
	switch backend {
	case CatalogCSV, CatalogPostgres:
		cfg.CatalogBackend = backend
	default:
		return fmt.Errorf("unknown bot.catalog_backend %q (want %q or %q)", cfg.CatalogBackend, CatalogCSV, CatalogPostgres)
	}

	cfg.ChannelUsername = strings.TrimPrefix(strings.TrimSpace(cfg.ChannelUsername), "@")
	return nil
}
