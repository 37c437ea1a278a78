// Package models defines the candidates, queries and ranked predictions shared across packages.
package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Candidate is a raw parking location supplied by a candidate store.
// HistoricalDemand is either a 0-1 fraction or a 0-100 percentage.
type Candidate struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Latitude         float64   `json:"latitude" db:"latitude"`
	Longitude        float64   `json:"longitude" db:"longitude"`
	HistoricalDemand float64   `json:"historical_demand" db:"historical_demand"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// CandidateInput is the input for creating a candidate.
type CandidateInput struct {
	ID               int64   `json:"id,omitempty"`
	Name             string  `json:"name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	HistoricalDemand float64 `json:"historical_demand"`
}

// Validate checks the input and trims the name.
func (in *CandidateInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return err
	}
	if math.IsNaN(in.HistoricalDemand) || in.HistoricalDemand < 0 || in.HistoricalDemand > 100 {
		return fmt.Errorf("%w: historical_demand must be within [0, 100]", ErrInvalidInput)
	}
	if in.ID < 0 {
		return fmt.Errorf("%w: id must not be negative", ErrInvalidInput)
	}
	return nil
}

// Candidate converts validated input into a Candidate.
func (in *CandidateInput) Candidate() *Candidate {
	return &Candidate{
		ID:               in.ID,
		Name:             in.Name,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		HistoricalDemand: in.HistoricalDemand,
	}
}
