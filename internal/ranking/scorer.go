package ranking

import (
	"math"

	"github.com/hyperjump/tomaru/pkg/utils"
)

// Scorer combines distance, historical demand and a traffic sample into a 0-100 score.
type Scorer struct {
	config *RankingConfig
}

// NewScorer creates a Scorer using config.
func NewScorer(config *RankingConfig) *Scorer {
	return &Scorer{config: config}
}

// DistanceScore decays linearly by one point per MetersPerPoint and floors at 0.
func (s *Scorer) DistanceScore(distanceMeters float64) float64 {
	return math.Max(0, MaxScore-distanceMeters/s.config.MetersPerPoint)
}

// NormalizeDemand maps a 0-1 fraction or a 0-100 percentage onto [0,100].
func NormalizeDemand(raw float64) float64 {
	if math.IsNaN(raw) {
		return 0
	}
	if raw <= 1 {
		raw *= 100
	}
	return utils.Clamp(raw, MinScore, MaxScore)
}

// Score returns the rounded, clamped weighted score.
func (s *Scorer) Score(distanceMeters, demandRaw, trafficSample float64) int {
	return s.Breakdown(distanceMeters, demandRaw, trafficSample).Final
}

// Breakdown returns the score together with its components.
//
//	score = round(Wd*distance + Wm*demand + Wt*traffic + Wb*baseline)
func (s *Scorer) Breakdown(distanceMeters, demandRaw, trafficSample float64) ScoreBreakdown {
	b := ScoreBreakdown{
		DistanceScore: s.DistanceScore(distanceMeters),
		DemandScore:   NormalizeDemand(demandRaw),
		TrafficScore:  utils.Clamp(trafficSample, MinScore, MaxScore),
		Baseline:      s.config.Baseline,
	}
	w := s.config.Weights()
	b.Raw = w.Distance*b.DistanceScore +
		w.Demand*b.DemandScore +
		w.Traffic*b.TrafficScore +
		w.Baseline*b.Baseline
	b.Final = int(utils.Clamp(float64(utils.RoundInt(b.Raw)), MinScore, MaxScore))
	return b
}
