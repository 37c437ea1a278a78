package ranking

import (
	"math/rand/v2"

	"github.com/hyperjump/tomaru/internal/geo"
	"github.com/hyperjump/tomaru/internal/models"
)

// maxJitterDegrees bounds the random perturbation of fallback positions (about 11 m).
const maxJitterDegrees = 0.0001

type fallbackTemplate struct {
	id      int64
	name    string
	dLat    float64
	dLng    float64
	score   int
	traffic models.TrafficDensity
	spaces  int
}

// Fixed spread of synthetic zones between roughly 150 and 400 m from the origin,
// covering every tier.
var fallbackTemplates = []fallbackTemplate{
	{id: 101, name: "Smart Zone A", dLat: 0.0012, dLng: 0.0009, score: 85, traffic: models.TrafficLow, spaces: 10},
	{id: 102, name: "Smart Zone B", dLat: -0.0011, dLng: -0.0013, score: 63, traffic: models.TrafficModerate, spaces: 6},
	{id: 103, name: "Smart Zone C", dLat: 0.0018, dLng: -0.0010, score: 38, traffic: models.TrafficHigh, spaces: 2},
	{id: 104, name: "Smart Zone D", dLat: -0.0020, dLng: 0.0016, score: 72, traffic: models.TrafficModerate, spaces: 5},
	{id: 105, name: "Smart Zone E", dLat: 0.0030, dLng: 0.0012, score: 47, traffic: models.TrafficHigh, spaces: 3},
}

// FallbackGenerator synthesizes predictions around the origin when no real candidate
// survives retrieval and radius filtering.
type FallbackGenerator struct {
	config      *RankingConfig
	classifier  *Classifier
	synthesizer *Synthesizer
}

// NewFallbackGenerator creates a FallbackGenerator using config.
func NewFallbackGenerator(config *RankingConfig) *FallbackGenerator {
	return &FallbackGenerator{
		config:      config,
		classifier:  NewClassifier(config),
		synthesizer: NewSynthesizer(config),
	}
}

// Size returns the number of predictions Generate produces.
func (g *FallbackGenerator) Size() int {
	return len(fallbackTemplates)
}

// Generate returns synthetic predictions in template order. When jitter is non-nil each
// position is perturbed by at most maxJitterDegrees per axis.
func (g *FallbackGenerator) Generate(origin geo.Coordinate, jitter *rand.Rand) []*models.Prediction {
	predictions := make([]*models.Prediction, 0, len(fallbackTemplates))
	for _, t := range fallbackTemplates {
		dLat, dLng := t.dLat, t.dLng
		if jitter != nil {
			dLat += (jitter.Float64()*2 - 1) * maxJitterDegrees
			dLng += (jitter.Float64()*2 - 1) * maxJitterDegrees
		}
		pos := geo.Offset(origin, dLat, dLng)
		distance := geo.Haversine(origin, pos)
		predictions = append(predictions, &models.Prediction{
			ID:              t.id,
			Name:            t.name,
			Location:        models.Location{Lat: pos.Lat, Lng: pos.Lng},
			Tier:            g.classifier.Classify(t.score),
			Score:           t.score,
			AvailableSpaces: t.spaces,
			TrafficDensity:  t.traffic,
			LegalStatus:     g.config.LegalStatus,
			DistanceMeters:  distance,
			DistanceLabel:   FormatDistance(distance),
			WalkingTime:     g.synthesizer.WalkingTime(distance),
			Synthetic:       true,
		})
	}
	return predictions
}
