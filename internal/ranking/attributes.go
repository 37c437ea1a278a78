package ranking

import (
	"fmt"
	"math"

	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/pkg/utils"
)

// Attributes are the display fields derived from a score and a distance.
type Attributes struct {
	AvailableSpaces int
	TrafficDensity  models.TrafficDensity
	DistanceLabel   string
	WalkingTime     string
}

// Synthesizer derives display attributes.
type Synthesizer struct {
	config *RankingConfig
}

// NewSynthesizer creates a Synthesizer using config.
func NewSynthesizer(config *RankingConfig) *Synthesizer {
	return &Synthesizer{config: config}
}

// Synthesize derives the display attributes. trafficSample must be the sample that was
// used to compute score.
func (s *Synthesizer) Synthesize(distanceMeters float64, score int, trafficSample float64) Attributes {
	return Attributes{
		AvailableSpaces: s.AvailableSpaces(score),
		TrafficDensity:  s.TrafficDensity(trafficSample),
		DistanceLabel:   FormatDistance(distanceMeters),
		WalkingTime:     s.WalkingTime(distanceMeters),
	}
}

// AvailableSpaces is max(0, round(BaseSpaces - score/ScorePerSpace)). Higher scores
// yield fewer modeled spaces; the mapping is kept as the legacy contract.
func (s *Synthesizer) AvailableSpaces(score int) int {
	spaces := utils.RoundInt(s.config.BaseSpaces - float64(score)/s.config.ScorePerSpace)
	if spaces < 0 {
		return 0
	}
	return spaces
}

// TrafficDensity labels a traffic sample.
func (s *Synthesizer) TrafficDensity(sample float64) models.TrafficDensity {
	switch {
	case sample > s.config.HeavyTrafficThreshold:
		return models.TrafficHigh
	case sample > s.config.ModerateTrafficThreshold:
		return models.TrafficModerate
	default:
		return models.TrafficLow
	}
}

// WalkingTime formats the walking time in whole minutes, at least one.
func (s *Synthesizer) WalkingTime(distanceMeters float64) string {
	minutes := utils.RoundInt(distanceMeters / s.config.WalkingSpeed)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatDistance formats meters rounded to the nearest meter, e.g. "240m".
func FormatDistance(distanceMeters float64) string {
	return fmt.Sprintf("%dm", int64(math.Round(distanceMeters)))
}
