// Package main is the Tomaru CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/cli"
	"github.com/hyperjump/tomaru/internal/config"
	"github.com/hyperjump/tomaru/internal/geoindex"
	"github.com/hyperjump/tomaru/internal/history"
	"github.com/hyperjump/tomaru/internal/importer"
	"github.com/hyperjump/tomaru/internal/metrics"
	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/internal/overpass"
	"github.com/hyperjump/tomaru/internal/ranking"
	"github.com/hyperjump/tomaru/internal/search"
	"github.com/hyperjump/tomaru/internal/server"
	"github.com/hyperjump/tomaru/internal/storage"
	"github.com/hyperjump/tomaru/internal/watcher"
	"github.com/hyperjump/tomaru/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/tomaru/config.yaml"
	defaultServerURL  = "http://localhost:8080"
	syncPageSize      = 500
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory takes precedence if it exists.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		// No config anywhere: run on defaults and TOMARU_* overrides.
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := config.Default()
			if err := config.ApplyEnv(cfg); err != nil {
				return nil, "", err
			}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "import":
		runImport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("tomaru version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (score breakdowns, reloads)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("retriever", cfg.Retriever.Source),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("debug", debugMode),
	)

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if n, err := components.Importer.ImportAll(ctx, cfg.Watch.Files); err != nil {
		logger.Warn("initial import failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("initial import done", zap.Int("candidates", n))
	}

	imp := components.Importer
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Files,
		func(path string) {
			if _, err := imp.Import(context.Background(), path); err != nil {
				logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(ctx)
	defer watchCancel()
	if len(cfg.Watch.Files) > 0 {
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	opts := []server.Option{server.WithMetrics(components.Metrics)}
	if components.GeoIndex != nil {
		opts = append(opts, server.WithIndex(components.GeoIndex))
	}
	srv := server.NewServer(components.Engine, components.Storage, cfg, logger, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	watchSvc.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: tomaru search --lat <lat> --lng <lng> [flags]\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  tomaru search --lat 19.076 --lng 72.8777
  tomaru search --lat 19.076 --lng 72.8777 --radius 1000 --query "station"
  tomaru search --lat 19.076 --lng 72.8777 --json
  tomaru search --server "" --lat 19.076 --lng 72.8777   # no server, read the store directly
`)
}

// searchFlags holds the parsed flags of the search subcommand.
type searchFlags struct {
	configPath string
	serverURL  string
	query      *models.SearchQuery
	format     cli.SearchOutputFormat
}

// parseSearchFlags parses args; lat and lng are required.
func parseSearchFlags(args []string, output io.Writer) (*searchFlags, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = search the store directly)")
	lat := fs.String("lat", "", "latitude of the destination")
	lng := fs.String("lng", "", "longitude of the destination")
	radius := fs.Int("radius", 0, "search radius in meters (default from config)")
	query := fs.String("query", "", "free-text destination, recorded in search history")
	seed := fs.String("seed", "", "seed for a reproducible traffic simulation")
	asJSON := fs.Bool("json", false, "print JSON instead of text")
	fs.Usage = func() { printSearchUsage(fs) }
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *lat == "" || *lng == "" {
		return nil, errors.New("--lat and --lng are required")
	}
	latitude, err := strconv.ParseFloat(*lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --lat: %w", err)
	}
	longitude, err := strconv.ParseFloat(*lng, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --lng: %w", err)
	}
	sq := &models.SearchQuery{
		Latitude:     latitude,
		Longitude:    longitude,
		RadiusMeters: *radius,
		Query:        *query,
	}
	if *seed != "" {
		v, err := strconv.ParseUint(*seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --seed: %w", err)
		}
		sq.Seed = &v
	}
	format := cli.OutputText
	if *asJSON {
		format = cli.OutputJSON
	}
	return &searchFlags{
		configPath: *configPath,
		serverURL:  *serverURL,
		query:      sq,
		format:     format,
	}, nil
}

func runSearch() {
	flags, err := parseSearchFlags(os.Args[2:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}

	var response *models.SearchResponse
	if flags.serverURL != "" {
		response, err = searchViaHTTP(http.DefaultClient, flags.serverURL, flags.query)
	} else {
		response, err = searchDirect(flags.configPath, flags.query)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, flags.format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchDirect(configPath string, query *models.SearchQuery) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()
	return components.Engine.Search(ctx, query)
}

// searchViaHTTP posts query to the server and decodes the ranked response.
func searchViaHTTP(client *http.Client, serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(serverURL+"/api/v1/parking/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// serverError turns a non-2xx response into an error, preferring the JSON error message.
func serverError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	RetrieverSource     string `json:"retriever_source"`
	StorageDriver       string `json:"storage_driver"`
	DefaultRadiusMeters int    `json:"default_radius_meters"`
	MaxRadiusMeters     int    `json:"max_radius_meters"`
	FallbackEnabled     bool   `json:"fallback_enabled"`
	HighThreshold       int    `json:"high_threshold"`
	MediumThreshold     int    `json:"medium_threshold"`
	DatabasePath        string `json:"database_path,omitempty"`
	GeoIndexPath        string `json:"geo_index_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Candidates     int64                 `json:"candidates"`
	Searches       int64                 `json:"searches"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = read the store directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status *statusResponse
	var err error
	if *serverURL != "" {
		status, err = statusViaHTTP(http.DefaultClient, *serverURL)
	} else {
		status, err = statusDirect(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func writeStatusText(w io.Writer, status *statusResponse) {
	fmt.Fprintf(w, "candidates:         %d   # stored parking candidates\n", status.Candidates)
	fmt.Fprintf(w, "searches:           %d   # recorded searches\n", status.Searches)
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # database + geo index on disk\n", *status.DiskUsageBytes)
	}
	if status.Config == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# configuration")
	fmt.Fprintf(w, "retriever_source:   %s\n", status.Config.RetrieverSource)
	fmt.Fprintf(w, "storage_driver:     %s\n", status.Config.StorageDriver)
	fmt.Fprintf(w, "default_radius:     %dm\n", status.Config.DefaultRadiusMeters)
	fmt.Fprintf(w, "max_radius:         %dm\n", status.Config.MaxRadiusMeters)
	fmt.Fprintf(w, "fallback_enabled:   %t\n", status.Config.FallbackEnabled)
	fmt.Fprintf(w, "tiers:              high > %d, medium > %d\n", status.Config.HighThreshold, status.Config.MediumThreshold)
	if status.Config.DatabasePath != "" {
		fmt.Fprintf(w, "database_path:      %s\n", status.Config.DatabasePath)
	}
	if status.Config.GeoIndexPath != "" {
		fmt.Fprintf(w, "geo_index_path:     %s\n", status.Config.GeoIndexPath)
	}
}

func statusDirect(configPath string) (*statusResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	candidates, err := store.CountCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	searches, err := store.CountSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("count searches: %w", err)
	}
	status := &statusResponse{
		Candidates: candidates,
		Searches:   searches,
		Config: &statusConfigResponse{
			RetrieverSource:     cfg.Retriever.Source,
			StorageDriver:       cfg.Storage.Driver,
			DefaultRadiusMeters: cfg.Search.DefaultRadiusMeters,
			MaxRadiusMeters:     cfg.Search.MaxRadiusMeters,
			FallbackEnabled:     cfg.Search.FallbackOrDefault(),
			HighThreshold:       cfg.Ranking.HighThreshold,
			MediumThreshold:     cfg.Ranking.MediumThreshold,
		},
	}
	var paths []string
	if cfg.Storage.Driver != config.DriverPostgres {
		status.Config.DatabasePath = cfg.Storage.DatabasePath
		paths = append(paths, cfg.Storage.DatabasePath)
	}
	if cfg.Retriever.Source == config.SourceGeoIndex {
		status.Config.GeoIndexPath = cfg.Storage.GeoIndexPath
		paths = append(paths, cfg.Storage.GeoIndexPath)
	}
	if len(paths) > 0 {
		if diskBytes, err := storage.DiskUsageBytes(paths...); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}
	return status, nil
}

func statusViaHTTP(client *http.Client, serverURL string) (*statusResponse, error) {
	resp, err := client.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: tomaru import [flags] <file.csv|file.xlsx>...")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	n, err := components.Importer.ImportAll(ctx, fs.Args())
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d candidate(s) from %d file(s)\n", n, fs.NArg())
}

// Components holds initialized services.
type Components struct {
	Storage   storage.Storage
	GeoIndex  *geoindex.Index
	Retriever search.Retriever
	Engine    *search.Engine
	Importer  *importer.Importer
	Metrics   *metrics.Metrics
	nats      *nats.Conn
}

func (c *Components) Close() {
	if c.nats != nil {
		_ = c.nats.Drain()
	}
	if c.GeoIndex != nil {
		_ = c.GeoIndex.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	opts := []storage.Option{storage.WithWindow(cfg.Retriever.WindowMeters)}
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		store, err := storage.NewPostgresStorage(ctx, cfg.Storage.PostgresURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return store, nil
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := &Components{
		Storage: store,
		Metrics: metrics.New(prometheus.NewRegistry()),
	}
	sinks := []importer.Sink{store.BatchUpsertCandidates}

	switch cfg.Retriever.Source {
	case config.SourceGeoIndex:
		idx, err := geoindex.NewIndex(cfg.Storage.GeoIndexPath, cfg.Retriever.WindowMeters)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize geo index: %w", err)
		}
		c.GeoIndex = idx
		if err := syncGeoIndex(ctx, store, idx, logger); err != nil {
			c.Close()
			return nil, err
		}
		c.Retriever = idx
		sinks = append(sinks, idx.IndexBatch)
	case config.SourceOverpass:
		c.Retriever = overpass.NewClient(overpass.Config{
			Endpoint:      cfg.Retriever.OverpassURL,
			Timeout:       cfg.Retriever.OverpassTimeout,
			MaxParallel:   cfg.Retriever.OverpassMaxParallel,
			RadiusMeters:  overpassRadius(cfg),
			DefaultDemand: cfg.Retriever.DefaultDemand,
			CacheSize:     cfg.Retriever.OverpassCacheSize,
			CacheTTL:      cfg.Retriever.OverpassCacheTTL,
		}, overpass.WithLogger(logger))
	default:
		c.Retriever = store
	}

	engineOpts := []search.Option{search.WithMetrics(c.Metrics), search.WithLogger(logger)}
	if cfg.History.EnabledOrDefault() {
		recorders := history.Multi{history.NewStoreRecorder(store)}
		if cfg.History.NATSURL != "" {
			nc, err := history.Connect(history.NATSConfig{URL: cfg.History.NATSURL}, logger)
			if err != nil {
				logger.Warn("NATS unavailable, search history stays local",
					zap.String("url", cfg.History.NATSURL), zap.Error(err))
			} else {
				c.nats = nc
				recorders = append(recorders, history.NewNATSRecorder(nc, cfg.History.Subject))
			}
		}
		engineOpts = append(engineOpts, search.WithRecorder(recorders))
	}

	ranker := ranking.NewRanker(&cfg.Ranking).WithFallback(cfg.Search.FallbackOrDefault())
	c.Engine = search.NewEngine(c.Retriever, ranker, &cfg.Search, engineOpts...)
	c.Importer = importer.New(logger, sinks...)
	return c, nil
}

// overpassRadius is the around-filter radius: the retrieval window, else the largest request radius.
func overpassRadius(cfg *config.Config) float64 {
	if cfg.Retriever.WindowMeters > 0 {
		return cfg.Retriever.WindowMeters
	}
	return float64(cfg.Search.MaxRadiusMeters)
}

// syncGeoIndex fills an empty geo index from the store.
func syncGeoIndex(ctx context.Context, store storage.Storage, idx *geoindex.Index, logger *zap.Logger) error {
	count, err := idx.DocCount()
	if err != nil {
		return fmt.Errorf("geo index count: %w", err)
	}
	if count > 0 {
		return nil
	}
	var synced int
	for offset := 0; ; offset += syncPageSize {
		page, err := store.ListCandidates(ctx, offset, syncPageSize)
		if err != nil {
			return fmt.Errorf("geo index sync: %w", err)
		}
		if len(page) == 0 {
			break
		}
		if err := idx.IndexBatch(ctx, page); err != nil {
			return fmt.Errorf("geo index sync: %w", err)
		}
		synced += len(page)
		if len(page) < syncPageSize {
			break
		}
	}
	if synced > 0 {
		logger.Info("geo index synced from store", zap.Int("candidates", synced))
	}
	return nil
}

func printUsage() {
	fmt.Println(`tomaru - Parking availability ranking around a destination

Usage:
  tomaru server [flags]                     Start the HTTP server
  tomaru search --lat <lat> --lng <lng>     Rank parking near a point
  tomaru import [flags] <file>...           Import candidates from CSV or XLSX
  tomaru status [flags]                     Show store and configuration status
  tomaru version                            Show version
  tomaru help                               Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/tomaru/config.yaml)
  --debug            Enable debug logging (score breakdowns, reloads)

Search Flags:
  --lat, --lng float   Destination coordinates (required)
  --radius int         Search radius in meters (default from config, 500)
  --query string       Free-text destination, recorded in search history
  --seed uint          Seed for a reproducible traffic simulation
  --json               Print JSON instead of text
  --server string      Server URL (default: http://localhost:8080). Use --server "" to read the store directly.
  --config string      Config file path (direct mode)

Status Flags:
  --config string    Config file path (direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct mode.
  --output string    Output format: text or json (default: text)

Examples:
  tomaru server
  tomaru import spots.csv
  tomaru search --lat 19.076 --lng 72.8777 --radius 800
  tomaru search --lat 19.076 --lng 72.8777 --json
  tomaru status --output json`)
}
