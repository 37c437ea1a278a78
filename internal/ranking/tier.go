package ranking

import "github.com/hyperjump/tomaru/internal/models"

// Classifier maps scores to tiers. Both thresholds are exclusive lower bounds.
type Classifier struct {
	high   int
	medium int
}

// NewClassifier creates a Classifier from the configured thresholds.
func NewClassifier(config *RankingConfig) *Classifier {
	return &Classifier{high: config.HighThreshold, medium: config.MediumThreshold}
}

// Classify returns High above the high threshold, Medium above the medium threshold,
// and Low otherwise.
func (c *Classifier) Classify(score int) models.Tier {
	switch {
	case score > c.high:
		return models.TierHigh
	case score > c.medium:
		return models.TierMedium
	default:
		return models.TierLow
	}
}
