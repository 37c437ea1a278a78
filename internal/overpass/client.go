// Package overpass retrieves parking candidates from OpenStreetMap through the Overpass API.
package overpass

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/serjvanilla/go-overpass"
	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/models"
)

const (
	DefaultEndpoint    = "https://overpass-api.de/api/interpreter"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxParallel = 2
)

// Config configures the Overpass client.
type Config struct {
	Endpoint    string
	Timeout     time.Duration
	MaxParallel int
	// RadiusMeters is the search radius of the around filter.
	RadiusMeters float64
	// DefaultDemand is assigned to every candidate; OSM carries no demand history.
	DefaultDemand float64
	// CacheSize is the number of grid cells kept in the result cache. Zero disables caching.
	CacheSize int
	CacheTTL  time.Duration
}

// Client implements candidate retrieval against an Overpass endpoint.
type Client struct {
	client *overpass.Client
	config Config
	cache  *resultCache
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. Zero config values take the package defaults.
func NewClient(config Config, opts ...Option) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxParallel <= 0 {
		config.MaxParallel = DefaultMaxParallel
	}
	httpClient := &http.Client{
		Timeout: config.Timeout,
	}
	client := overpass.NewWithSettings(config.Endpoint, config.MaxParallel, httpClient)
	c := &Client{
		client: &client,
		config: config,
		logger: zap.NewNop(),
	}
	if config.CacheSize > 0 {
		c.cache = newResultCache(config.CacheSize, config.CacheTTL)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildQuery returns the Overpass QL query for public parking around a point.
func BuildQuery(lat, lng, radiusMeters float64) string {
	around := fmt.Sprintf("(around:%s,%s,%s)",
		strconv.FormatFloat(radiusMeters, 'f', 0, 64),
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))
	return `[out:json];
(
	node["amenity"="parking"]` + around + `;
	way["amenity"="parking"]` + around + `;
);
out body;
>;
out skel qt;`
}

type queryResult struct {
	result overpass.Result
	err    error
}

// FetchCandidates queries parking amenities around the point. Way IDs are negated so
// they never collide with node IDs. Results are ordered by ID.
// With caching enabled the query is centered on the point's grid cell and widened to
// cover the whole cell, so nearby points share one cached result.
func (c *Client) FetchCandidates(ctx context.Context, lat, lng float64) ([]*models.Candidate, error) {
	if c.cache == nil {
		return c.fetch(ctx, lat, lng, c.config.RadiusMeters)
	}
	key := cellOf(lat, lng)
	if candidates, ok := c.cache.Get(key); ok {
		c.logger.Debug("Overpass cache hit", zap.Float64("lat", lat), zap.Float64("lng", lng))
		return candidates, nil
	}
	centerLat, centerLng := key.center()
	candidates, err := c.fetch(ctx, centerLat, centerLng, c.config.RadiusMeters+cellSlackMeters)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, candidates)
	return append([]*models.Candidate(nil), candidates...), nil
}

func (c *Client) fetch(ctx context.Context, lat, lng, radiusMeters float64) ([]*models.Candidate, error) {
	query := BuildQuery(lat, lng, radiusMeters)

	done := make(chan queryResult, 1)
	go func() {
		result, err := c.client.Query(query)
		done <- queryResult{result: result, err: err}
	}()

	var res queryResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("overpass query canceled: %w", ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", res.err)
	}

	candidates := c.convert(&res.result)
	c.logger.Debug("Overpass candidates fetched",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.Int("count", len(candidates)))
	return candidates, nil
}

func (c *Client) convert(result *overpass.Result) []*models.Candidate {
	candidates := make([]*models.Candidate, 0, len(result.Nodes)+len(result.Ways))

	for _, node := range result.Nodes {
		if !isPublicParking(node.Tags) {
			continue
		}
		candidates = append(candidates, c.candidate(node.ID, node.Tags, node.Lat, node.Lon))
	}

	for _, way := range result.Ways {
		if !isPublicParking(way.Tags) {
			continue
		}
		lat, lon, ok := wayCenter(way)
		if !ok {
			continue
		}
		candidates = append(candidates, c.candidate(-way.ID, way.Tags, lat, lon))
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates
}

func (c *Client) candidate(id int64, tags map[string]string, lat, lon float64) *models.Candidate {
	name := tags["name"]
	if name == "" {
		osmID := id
		if osmID < 0 {
			osmID = -osmID
		}
		name = fmt.Sprintf("Parking %d", osmID)
	}
	return &models.Candidate{
		ID:               id,
		Name:             name,
		Latitude:         lat,
		Longitude:        lon,
		HistoricalDemand: c.config.DefaultDemand,
	}
}

func isPublicParking(tags map[string]string) bool {
	if tags["amenity"] != "parking" {
		return false
	}
	switch tags["access"] {
	case "private", "no":
		return false
	}
	return true
}

// wayCenter averages the member node positions, falling back to the bounds center.
func wayCenter(way *overpass.Way) (lat, lon float64, ok bool) {
	var count int
	for _, node := range way.Nodes {
		if node == nil || (node.Lat == 0 && node.Lon == 0) {
			continue
		}
		lat += node.Lat
		lon += node.Lon
		count++
	}
	if count > 0 {
		return lat / float64(count), lon / float64(count), true
	}
	if way.Bounds != nil {
		return (way.Bounds.Min.Lat + way.Bounds.Max.Lat) / 2, (way.Bounds.Min.Lon + way.Bounds.Max.Lon) / 2, true
	}
	return 0, 0, false
}
