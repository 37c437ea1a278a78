// Package ranking scores parking candidates around a query point and ranks them
// by predicted availability.
package ranking

import (
	"math/rand/v2"

	"github.com/hyperjump/tomaru/internal/geo"
	"github.com/hyperjump/tomaru/internal/models"
)

// TrafficSource supplies a traffic sample in [0,100] for a coordinate.
type TrafficSource interface {
	Sample(point geo.Coordinate) float64
}

// Session carries the randomness for one ranking request. It is never shared
// between requests.
type Session struct {
	// Traffic is sampled once per scored candidate.
	Traffic TrafficSource
	// Jitter perturbs fallback positions; nil places them at their fixed offsets.
	Jitter *rand.Rand
	// Explain requests a ScoreBreakdown per scored candidate.
	Explain bool
}

// NewSession returns a session whose traffic simulation and fallback jitter are both
// derived from seed, so equal seeds reproduce equal rankings.
func NewSession(seed uint64) *Session {
	return &Session{
		Traffic: NewSimulatedTraffic(rand.New(rand.NewPCG(seed, seed^trafficStream))),
		Jitter:  rand.New(rand.NewPCG(seed, seed^jitterStream)),
	}
}

// NewFixedSession returns a session that reports the same traffic sample everywhere
// and applies no fallback jitter.
func NewFixedSession(traffic float64) *Session {
	return &Session{Traffic: FixedTraffic(traffic)}
}

const (
	trafficStream = 0x7472616666696321
	jitterStream  = 0x6a69747465722121
)

// ScoreBreakdown provides the weighted components of a score for debugging.
type ScoreBreakdown struct {
	DistanceScore float64
	DemandScore   float64
	TrafficScore  float64
	Baseline      float64
	// Raw is the weighted sum before rounding and clamping.
	Raw   float64
	Final int
}

// RankResult is the outcome of ranking one request.
type RankResult struct {
	// Predictions are sorted by score descending; ties keep retrieval order.
	Predictions []*models.Prediction
	Insights    models.Insights
	// Fallback is true when Predictions were synthesized.
	Fallback bool
	// Retrieved is the number of candidates handed to the ranker.
	Retrieved int
	// OutOfRadius is the number of candidates dropped by the radius filter.
	OutOfRadius int
	// Invalid is the number of candidates skipped for unusable coordinates.
	Invalid int
	// Breakdowns is keyed by candidate ID and only filled when the session asks for it.
	Breakdowns map[int64]ScoreBreakdown
}
