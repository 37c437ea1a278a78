package ranking

import (
	"math/rand/v2"

	"github.com/hyperjump/tomaru/internal/geo"
	"github.com/hyperjump/tomaru/pkg/utils"
)

// SimulatedTraffic draws uniform samples in [0,100). It stands in for a live traffic
// feed and carries no information about the coordinate.
type SimulatedTraffic struct {
	rng *rand.Rand
}

// NewSimulatedTraffic returns a simulation backed by rng. rng must not be shared
// across requests.
func NewSimulatedTraffic(rng *rand.Rand) *SimulatedTraffic {
	return &SimulatedTraffic{rng: rng}
}

// Sample returns the next simulated traffic value.
func (s *SimulatedTraffic) Sample(geo.Coordinate) float64 {
	return s.rng.Float64() * 100
}

// FixedTraffic reports the same sample for every coordinate.
type FixedTraffic float64

// Sample returns the fixed value clamped to [0,100].
func (f FixedTraffic) Sample(geo.Coordinate) float64 {
	return utils.Clamp(float64(f), 0, 100)
}

// SequenceTraffic replays a fixed list of samples in order, cycling when exhausted.
type SequenceTraffic struct {
	values []float64
	next   int
}

// NewSequenceTraffic returns a source that yields values in order.
func NewSequenceTraffic(values ...float64) *SequenceTraffic {
	return &SequenceTraffic{values: values}
}

// Sample returns the next value of the sequence, or 0 when it is empty.
func (s *SequenceTraffic) Sample(geo.Coordinate) float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return utils.Clamp(v, 0, 100)
}
