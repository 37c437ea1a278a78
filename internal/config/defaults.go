package config

import (
	"time"

	"github.com/hyperjump/tomaru/internal/history"
	"github.com/hyperjump/tomaru/internal/ranking"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/tomaru/data/db/candidates.db"
	}
	if cfg.Storage.GeoIndexPath == "" {
		cfg.Storage.GeoIndexPath = "/usr/local/var/tomaru/data/indices/geo"
	}
	if cfg.Retriever.Source == "" {
		cfg.Retriever.Source = SourceStore
	}
	if cfg.Retriever.OverpassURL == "" {
		cfg.Retriever.OverpassURL = "https://overpass-api.de/api/interpreter"
	}
	if cfg.Retriever.OverpassTimeout == 0 {
		cfg.Retriever.OverpassTimeout = 10 * time.Second
	}
	if cfg.Retriever.OverpassMaxParallel == 0 {
		cfg.Retriever.OverpassMaxParallel = 2
	}
	if cfg.Retriever.OverpassCacheSize == 0 {
		cfg.Retriever.OverpassCacheSize = 256
	}
	if cfg.Retriever.OverpassCacheTTL == 0 {
		cfg.Retriever.OverpassCacheTTL = 5 * time.Minute
	}
	if cfg.Retriever.DefaultDemand == 0 {
		cfg.Retriever.DefaultDemand = 0.5
	}
	if cfg.Search.DefaultRadiusMeters == 0 {
		cfg.Search.DefaultRadiusMeters = 500
	}
	if cfg.Search.MaxRadiusMeters == 0 {
		cfg.Search.MaxRadiusMeters = 50000
	}
	cfg.Ranking.ApplyDefaults()
	if cfg.History.Subject == "" {
		cfg.History.Subject = history.DefaultSubject
	}
	// Window must cover the largest radius a request may ask for.
	if cfg.Retriever.WindowMeters > 0 && cfg.Retriever.WindowMeters < float64(cfg.Search.MaxRadiusMeters) {
		cfg.Retriever.WindowMeters = float64(cfg.Search.MaxRadiusMeters)
	}
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{Ranking: *ranking.DefaultRankingConfig()}
	ApplyDefaults(cfg)
	return cfg
}
