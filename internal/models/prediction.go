package models

import "time"

// Tier is the discrete availability classification of a score.
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// TrafficDensity labels the traffic sample used for a prediction.
type TrafficDensity string

const (
	TrafficLow      TrafficDensity = "Low"
	TrafficModerate TrafficDensity = "Moderate"
	TrafficHigh     TrafficDensity = "High"
)

// Location is the position of a prediction.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Prediction is the scored, display-ready record for one candidate.
type Prediction struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Location        Location       `json:"location"`
	Tier            Tier           `json:"tier"`
	Score           int            `json:"score"`
	AvailableSpaces int            `json:"available_spaces"`
	TrafficDensity  TrafficDensity `json:"traffic_density"`
	LegalStatus     string         `json:"legal_status"`
	DistanceMeters  float64        `json:"distance_meters"`
	DistanceLabel   string         `json:"distance"`
	WalkingTime     string         `json:"walking_time"`
	// Synthetic marks fallback predictions that were not backed by a stored candidate.
	Synthetic bool `json:"-"`
}

// Insights summarizes a ranked prediction sequence.
type Insights struct {
	BestCandidateID int64  `json:"best_candidate_id"`
	AverageScore    int    `json:"average_score"`
	Summary         string `json:"summary"`
}

// SearchResponse is the response for a ranking request.
type SearchResponse struct {
	Predictions  []*Prediction `json:"predictions"`
	Insights     Insights      `json:"insights"`
	RadiusMeters int           `json:"radius_meters"`
	QueryTime    int64         `json:"query_time_ms"`
}

// SearchRecord is one entry of search history.
type SearchRecord struct {
	ID        string    `json:"id" db:"id"`
	Query     string    `json:"query" db:"query"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
