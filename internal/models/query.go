package models

import (
	"fmt"
	"strings"
)

// SearchQuery is a ranking request around a point.
type SearchQuery struct {
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	RadiusMeters int     `json:"radius,omitempty"`
	Query        string  `json:"query,omitempty"` // free text, forwarded to search history only
	Seed         *uint64 `json:"seed,omitempty"`  // fixes the traffic simulation for reproducible results
}

// Validate rejects non-finite or out-of-range coordinates and negative radii.
// A zero radius becomes defaultRadius; radii above maxRadius are capped when maxRadius > 0.
func (q *SearchQuery) Validate(defaultRadius, maxRadius int) error {
	if err := validateCoordinates(q.Latitude, q.Longitude); err != nil {
		return err
	}
	if q.RadiusMeters < 0 {
		return fmt.Errorf("%w: radius must not be negative", ErrInvalidInput)
	}
	if q.RadiusMeters == 0 {
		q.RadiusMeters = defaultRadius
	}
	if maxRadius > 0 && q.RadiusMeters > maxRadius {
		q.RadiusMeters = maxRadius
	}
	q.Query = strings.TrimSpace(q.Query)
	return nil
}
