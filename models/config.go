// Package models defines data structures for configuration and ranking.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultIndexerURL      = "https://api.tzkt.io/v1"
	DefaultContract        = "KT1SyPgtiXTaEfBuMZKviWGNHqVrBBEjvtfQ"
	DefaultGatewayURL      = "https://cloudflare-ipfs.com/ipfs"
	DefaultCollectionTotal = 5555
	DefaultIndexerLimit    = 10000
)

// CacheConfig controls the on-disk metadata cache.
type CacheConfig struct {
	Dir        string        `yaml:"dir"`
	Prefix     string        `yaml:"prefix"`
	StaleDelay time.Duration `yaml:"stale_delay"`
}

// ReportConfig holds output paths. An empty path skips that report.
type ReportConfig struct {
	ByRank  string `yaml:"by_rank"`
	ByID    string `yaml:"by_id"`
	Traits  string `yaml:"traits"`
	Summary string `yaml:"summary"`
}

// DatabaseConfig points at the run history database. An empty path disables it.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Config holds runtime configuration for a ranking run.
// Values come from an optional YAML file, then CLI flags override them.
type Config struct {
	IndexerURL      string         `yaml:"indexer_url"`
	Contract        string         `yaml:"contract"`
	Limit           int            `yaml:"limit"`
	GatewayURL      string         `yaml:"gateway_url"`
	CollectionTotal int            `yaml:"collection_total"`
	HTTPTimeout     time.Duration  `yaml:"http_timeout"`
	Workers         int            `yaml:"workers"`
	IDPadding       int            `yaml:"id_padding"`
	TieBreak        TieBreak       `yaml:"tie_break"`
	TopN            int            `yaml:"top_n"`
	Cache           CacheConfig    `yaml:"cache"`
	Reports         ReportConfig   `yaml:"reports"`
	Database        DatabaseConfig `yaml:"database"`
}

// DefaultConfig returns the configuration for the GOGOs collection.
func DefaultConfig() *Config {
	return &Config{
		IndexerURL:      DefaultIndexerURL,
		Contract:        DefaultContract,
		Limit:           DefaultIndexerLimit,
		GatewayURL:      DefaultGatewayURL,
		CollectionTotal: DefaultCollectionTotal,
		HTTPTimeout:     30 * time.Second,
		Workers:         1,
		IDPadding:       4,
		TieBreak:        TieBreakInsertion,
		TopN:            10,
		Cache: CacheConfig{
			Dir:        "ipfs_cache",
			Prefix:     "gogo",
			StaleDelay: time.Second,
		},
		Reports: ReportConfig{
			ByRank: "gogos-by-rank.csv",
			ByID:   "gogos-by-id.csv",
		},
		Database: DatabaseConfig{
			Path: "rarity.db",
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration before a run starts.
func (c *Config) Validate() error {
	if c.CollectionTotal <= 0 {
		return fmt.Errorf("collection_total must be positive, got %d", c.CollectionTotal)
	}
	if c.IDPadding < 0 {
		return fmt.Errorf("id_padding must not be negative, got %d", c.IDPadding)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.IndexerURL == "" || c.Contract == "" {
		return errors.New("indexer_url and contract are required")
	}
	if c.GatewayURL == "" {
		return errors.New("gateway_url is required")
	}
	if c.Cache.Dir == "" {
		return errors.New("cache.dir is required")
	}
	tb, err := ParseTieBreak(string(c.TieBreak))
	if err != nil {
		return err
	}
	c.TieBreak = tb
	return nil
}
