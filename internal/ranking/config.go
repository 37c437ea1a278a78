package ranking

// Default scoring parameters. The four weights sum to 1.0 including the baseline residual.
const (
	DefaultDistanceWeight = 0.4
	DefaultDemandWeight   = 0.3
	DefaultTrafficWeight  = 0.2
	DefaultBaselineWeight = 0.1

	// DefaultBaseline is the constant residual score that keeps poor candidates above zero.
	DefaultBaseline = 50.0
	// DefaultMetersPerPoint is the distance decay: one score point lost per 10 m.
	DefaultMetersPerPoint = 10.0

	// Tier boundaries are exclusive: score > 80 is High, score > 55 is Medium.
	DefaultHighThreshold   = 80
	DefaultMediumThreshold = 55

	// Traffic sample boundaries (exclusive) for the density label.
	DefaultHeavyTrafficThreshold    = 70.0
	DefaultModerateTrafficThreshold = 40.0

	// availableSpaces = max(0, round(BaseSpaces - score/ScorePerSpace)).
	DefaultBaseSpaces    = 15.0
	DefaultScorePerSpace = 7.0

	// DefaultWalkingSpeed is in meters per minute.
	DefaultWalkingSpeed = 80.0

	DefaultLegalStatus = "Legal (Public)"

	MinScore = 0
	MaxScore = 100
)

// RankingConfig holds the tunable parameters of scoring, tiering and attribute synthesis.
type RankingConfig struct {
	// Score weights. Unset weights take their default; an explicit 0 disables the signal.
	DistanceWeight *float64 `yaml:"distance_weight"`  // default: 0.4
	DemandWeight   *float64 `yaml:"demand_weight"`    // default: 0.3
	TrafficWeight  *float64 `yaml:"traffic_weight"`   // default: 0.2
	BaselineWeight *float64 `yaml:"baseline_weight"`  // default: 0.1
	Baseline       float64  `yaml:"baseline"`         // default: 50
	MetersPerPoint float64  `yaml:"meters_per_point"` // default: 10

	// Tier thresholds
	HighThreshold   int `yaml:"high_threshold"`   // default: 80
	MediumThreshold int `yaml:"medium_threshold"` // default: 55

	// Attribute synthesis
	HeavyTrafficThreshold    float64 `yaml:"heavy_traffic_threshold"`    // default: 70
	ModerateTrafficThreshold float64 `yaml:"moderate_traffic_threshold"` // default: 40
	BaseSpaces               float64 `yaml:"base_spaces"`                // default: 15
	ScorePerSpace            float64 `yaml:"score_per_space"`            // default: 7
	WalkingSpeed             float64 `yaml:"walking_speed"`              // default: 80 (m/min)
	LegalStatus              string  `yaml:"legal_status"`               // default: "Legal (Public)"
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		DistanceWeight: Weight(DefaultDistanceWeight),
		DemandWeight:   Weight(DefaultDemandWeight),
		TrafficWeight:  Weight(DefaultTrafficWeight),
		BaselineWeight: Weight(DefaultBaselineWeight),
		Baseline:       DefaultBaseline,
		MetersPerPoint: DefaultMetersPerPoint,

		HighThreshold:   DefaultHighThreshold,
		MediumThreshold: DefaultMediumThreshold,

		HeavyTrafficThreshold:    DefaultHeavyTrafficThreshold,
		ModerateTrafficThreshold: DefaultModerateTrafficThreshold,
		BaseSpaces:               DefaultBaseSpaces,
		ScorePerSpace:            DefaultScorePerSpace,
		WalkingSpeed:             DefaultWalkingSpeed,
		LegalStatus:              DefaultLegalStatus,
	}
}

// Weight returns a pointer to w for use in RankingConfig.
func Weight(w float64) *float64 {
	return &w
}

// Weights are the resolved score weights.
type Weights struct {
	Distance float64
	Demand   float64
	Traffic  float64
	Baseline float64
}

// Weights returns the configured weights, with defaults for unset ones.
func (c *RankingConfig) Weights() Weights {
	return Weights{
		Distance: weightOr(c.DistanceWeight, DefaultDistanceWeight),
		Demand:   weightOr(c.DemandWeight, DefaultDemandWeight),
		Traffic:  weightOr(c.TrafficWeight, DefaultTrafficWeight),
		Baseline: weightOr(c.BaselineWeight, DefaultBaselineWeight),
	}
}

func weightOr(w *float64, def float64) float64 {
	if w != nil {
		return *w
	}
	return def
}

// ApplyDefaults fills in unset weights and zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()

	if c.DistanceWeight == nil {
		c.DistanceWeight = defaults.DistanceWeight
	}
	if c.DemandWeight == nil {
		c.DemandWeight = defaults.DemandWeight
	}
	if c.TrafficWeight == nil {
		c.TrafficWeight = defaults.TrafficWeight
	}
	if c.BaselineWeight == nil {
		c.BaselineWeight = defaults.BaselineWeight
	}
	if c.Baseline == 0 {
		c.Baseline = defaults.Baseline
	}
	if c.MetersPerPoint <= 0 {
		c.MetersPerPoint = defaults.MetersPerPoint
	}

	if c.HighThreshold == 0 {
		c.HighThreshold = defaults.HighThreshold
	}
	if c.MediumThreshold == 0 {
		c.MediumThreshold = defaults.MediumThreshold
	}

	if c.HeavyTrafficThreshold == 0 {
		c.HeavyTrafficThreshold = defaults.HeavyTrafficThreshold
	}
	if c.ModerateTrafficThreshold == 0 {
		c.ModerateTrafficThreshold = defaults.ModerateTrafficThreshold
	}
	if c.BaseSpaces == 0 {
		c.BaseSpaces = defaults.BaseSpaces
	}
	if c.ScorePerSpace <= 0 {
		c.ScorePerSpace = defaults.ScorePerSpace
	}
	if c.WalkingSpeed <= 0 {
		c.WalkingSpeed = defaults.WalkingSpeed
	}
	if c.LegalStatus == "" {
		c.LegalStatus = defaults.LegalStatus
	}
}
