// Package config provides configuration loading and structs for the Tomaru server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/tomaru/internal/ranking"
)

// Retriever sources.
const (
	SourceStore    = "store"
	SourceGeoIndex = "geoindex"
	SourceOverpass = "overpass"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool                  `yaml:"debug"`
	Server    ServerConfig          `yaml:"server"`
	Storage   StorageConfig         `yaml:"storage"`
	Retriever RetrieverConfig       `yaml:"retriever"`
	Search    SearchConfig          `yaml:"search"`
	Ranking   ranking.RankingConfig `yaml:"ranking"`
	History   HistoryConfig         `yaml:"history"`
	Watch     WatchConfig           `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// StorageConfig selects the candidate store and its paths.
type StorageConfig struct {
	Driver       string `yaml:"driver"` // sqlite or postgres
	DatabasePath string `yaml:"database_path"`
	PostgresURL  string `yaml:"postgres_url"`
	GeoIndexPath string `yaml:"geo_index_path"`
}

// RetrieverConfig selects where candidates come from at search time.
type RetrieverConfig struct {
	Source string `yaml:"source"` // store, geoindex or overpass
	// WindowMeters prefilters candidates to a box or circle around the query point.
	// Zero retrieves every candidate.
	WindowMeters        float64       `yaml:"window_meters"`
	OverpassURL         string        `yaml:"overpass_url"`
	OverpassTimeout     time.Duration `yaml:"overpass_timeout"`
	OverpassMaxParallel int           `yaml:"overpass_max_parallel"`
	OverpassCacheSize   int           `yaml:"overpass_cache_size"` // grid cells; negative disables
	OverpassCacheTTL    time.Duration `yaml:"overpass_cache_ttl"`
	DefaultDemand       float64       `yaml:"default_demand"`
}

// SearchConfig holds request defaults.
type SearchConfig struct {
	DefaultRadiusMeters int   `yaml:"default_radius_meters"`
	MaxRadiusMeters     int   `yaml:"max_radius_meters"`
	FallbackEnabled     *bool `yaml:"fallback_enabled"`
}

// FallbackOrDefault returns whether empty results are replaced by synthetic predictions;
// defaults to true when unset.
func (s *SearchConfig) FallbackOrDefault() bool {
	if s.FallbackEnabled != nil {
		return *s.FallbackEnabled
	}
	return true
}

// HistoryConfig holds search history settings.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// EnabledOrDefault returns whether search history is recorded; defaults to true when unset.
func (h *HistoryConfig) EnabledOrDefault() bool {
	if h.Enabled != nil {
		return *h.Enabled
	}
	return true
}

// WatchConfig lists candidate files to import and reload on change.
type WatchConfig struct {
	Files []string `yaml:"files"`
}

// Load reads and parses the config file at path, loads a .env file next to it when
// present, applies TOMARU_* environment overrides, expands paths and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.GeoIndexPath = expandPath(cfg.Storage.GeoIndexPath, configDir)
	for i := range cfg.Watch.Files {
		cfg.Watch.Files[i] = expandPath(cfg.Watch.Files[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
