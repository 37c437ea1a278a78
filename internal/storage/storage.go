// Package storage defines the persistence interface for parking candidates and search history.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/tomaru/internal/geo"
	"github.com/hyperjump/tomaru/internal/models"
)

// ErrNotFound is returned when a candidate does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a candidate collides with an existing ID or with
// an existing candidate of the same name and position.
var ErrConflict = errors.New("conflict")

// Storage defines candidate and search history persistence operations.
type Storage interface {
	// Candidate operations
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	GetCandidate(ctx context.Context, id int64) (*models.Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
	ListCandidates(ctx context.Context, offset, limit int) ([]*models.Candidate, error)

	// Batch operations
	BatchUpsertCandidates(ctx context.Context, candidates []*models.Candidate) error

	// Retrieval
	FetchCandidates(ctx context.Context, lat, lng float64) ([]*models.Candidate, error)

	// Search history
	LogSearch(ctx context.Context, record *models.SearchRecord) error

	// Stats
	CountCandidates(ctx context.Context) (int64, error)
	CountSearches(ctx context.Context) (int64, error)

	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	windowMeters float64
}

// WithWindow limits FetchCandidates to the bounding box of a circle of the given
// radius around the query point. Zero or negative returns every candidate.
func WithWindow(meters float64) Option {
	return func(o *options) {
		o.windowMeters = meters
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// window returns the prefilter box for a query point, or false when unbounded.
func (o options) window(lat, lng float64) (geo.Box, bool) {
	if o.windowMeters <= 0 {
		return geo.Box{}, false
	}
	return geo.BoundingBox(geo.Coordinate{Lat: lat, Lng: lng}, o.windowMeters), true
}

// windowClause renders the box as a WHERE condition. placeholder returns the
// bind marker for the nth argument (1-based). A box that crosses the antimeridian
// ORs its two longitude ranges.
func windowClause(box geo.Box, placeholder func(n int) string) (string, []any) {
	args := []any{box.MinLat, box.MaxLat}
	clause := fmt.Sprintf("latitude BETWEEN %s AND %s", placeholder(1), placeholder(2))

	var lng []string
	for _, r := range box.LngRanges() {
		args = append(args, r[0], r[1])
		lng = append(lng, fmt.Sprintf("longitude BETWEEN %s AND %s", placeholder(len(args)-1), placeholder(len(args))))
	}
	return clause + " AND (" + strings.Join(lng, " OR ") + ")", args
}
