package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TOMARU_"

// ApplyEnv overrides cfg with TOMARU_* environment variables. Unset variables leave
// the YAML value in place.
func ApplyEnv(cfg *Config) error {
	if v, ok := lookup("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("DEBUG", v, err)
		}
		cfg.Debug = b
	}
	if v, ok := lookup("SERVER_HOST"); ok {
		cfg.Server.Host = v
	}
	if v, ok := lookup("SERVER_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("SERVER_PORT", v, err)
		}
		cfg.Server.Port = n
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("STORAGE_DRIVER"); ok {
		cfg.Storage.Driver = v
	}
	if v, ok := lookup("DATABASE_PATH"); ok {
		cfg.Storage.DatabasePath = v
	}
	if v, ok := lookup("POSTGRES_URL"); ok {
		cfg.Storage.PostgresURL = v
	}
	if v, ok := lookup("GEO_INDEX_PATH"); ok {
		cfg.Storage.GeoIndexPath = v
	}
	if v, ok := lookup("RETRIEVER_SOURCE"); ok {
		cfg.Retriever.Source = v
	}
	if v, ok := lookup("OVERPASS_URL"); ok {
		cfg.Retriever.OverpassURL = v
	}
	if v, ok := lookup("OVERPASS_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("OVERPASS_TIMEOUT", v, err)
		}
		cfg.Retriever.OverpassTimeout = d
	}
	if v, ok := lookup("DEFAULT_RADIUS_METERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("DEFAULT_RADIUS_METERS", v, err)
		}
		cfg.Search.DefaultRadiusMeters = n
	}
	if v, ok := lookup("NATS_URL"); ok {
		cfg.History.NATSURL = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func envError(name, value string, err error) error {
	return fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, name, value, err)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
