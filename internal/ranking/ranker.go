package ranking

import (
	"math"
	"sort"

	"github.com/hyperjump/tomaru/internal/geo"
	"github.com/hyperjump/tomaru/internal/models"
)

// Ranker runs the full pipeline for one request: distance, radius filter, scoring,
// tiering, attribute synthesis, ordering, fallback and insights.
type Ranker struct {
	config          *RankingConfig
	scorer          *Scorer
	classifier      *Classifier
	synthesizer     *Synthesizer
	fallback        *FallbackGenerator
	fallbackEnabled bool
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:          config,
		scorer:          NewScorer(config),
		classifier:      NewClassifier(config),
		synthesizer:     NewSynthesizer(config),
		fallback:        NewFallbackGenerator(config),
		fallbackEnabled: true,
	}
}

// WithFallback enables or disables synthetic predictions for empty results.
func (r *Ranker) WithFallback(enabled bool) *Ranker {
	r.fallbackEnabled = enabled
	return r
}

// predict scores c at pos. It reports false when pos lies farther than radiusMeters
// from origin.
func (r *Ranker) predict(origin, pos geo.Coordinate, radiusMeters float64, c *models.Candidate, traffic TrafficSource) (*models.Prediction, ScoreBreakdown, bool) {
	distance := geo.Haversine(origin, pos)
	if distance > radiusMeters {
		return nil, ScoreBreakdown{}, false
	}

	sample := traffic.Sample(pos)
	breakdown := r.scorer.Breakdown(distance, c.HistoricalDemand, sample)
	attrs := r.synthesizer.Synthesize(distance, breakdown.Final, sample)

	return &models.Prediction{
		ID:              c.ID,
		Name:            c.Name,
		Location:        models.Location{Lat: c.Latitude, Lng: c.Longitude},
		Tier:            r.classifier.Classify(breakdown.Final),
		Score:           breakdown.Final,
		AvailableSpaces: attrs.AvailableSpaces,
		TrafficDensity:  attrs.TrafficDensity,
		LegalStatus:     r.config.LegalStatus,
		DistanceMeters:  distance,
		DistanceLabel:   attrs.DistanceLabel,
		WalkingTime:     attrs.WalkingTime,
	}, breakdown, true
}

// Rank scores every candidate within radiusMeters of origin and returns them sorted by
// score descending, ties kept in retrieval order. When nothing survives and fallback is
// enabled, synthetic predictions are returned instead.
func (r *Ranker) Rank(origin geo.Coordinate, radiusMeters float64, candidates []*models.Candidate, session *Session) *RankResult {
	if session == nil {
		session = NewFixedSession(DefaultBaseline)
	}
	if math.IsNaN(radiusMeters) || radiusMeters < 0 {
		radiusMeters = 0
	}

	result := &RankResult{
		Predictions: make([]*models.Prediction, 0, len(candidates)),
		Retrieved:   len(candidates),
	}
	if session.Explain {
		result.Breakdowns = make(map[int64]ScoreBreakdown, len(candidates))
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		pos := geo.Coordinate{Lat: c.Latitude, Lng: c.Longitude}
		if !pos.Valid() {
			result.Invalid++
			continue
		}
		p, breakdown, ok := r.predict(origin, pos, radiusMeters, c, session.Traffic)
		if !ok {
			result.OutOfRadius++
			continue
		}
		result.Predictions = append(result.Predictions, p)
		if session.Explain {
			result.Breakdowns[c.ID] = breakdown
		}
	}

	if len(result.Predictions) == 0 && r.fallbackEnabled {
		result.Predictions = r.fallback.Generate(origin, session.Jitter)
		result.Fallback = true
	}

	SortByScore(result.Predictions)
	result.Insights = Aggregate(result.Predictions)
	return result
}

// SortByScore orders predictions by score descending. The sort is stable.
func SortByScore(predictions []*models.Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
}
