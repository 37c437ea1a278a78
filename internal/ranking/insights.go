package ranking

import (
	"fmt"

	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/pkg/utils"
)

// NoCandidateID is reported as the best candidate of an empty ranking.
const NoCandidateID int64 = 0

// Aggregate summarizes a ranked sequence. predictions must already be sorted.
// An empty sequence yields NoCandidateID and an average of 0.
func Aggregate(predictions []*models.Prediction) models.Insights {
	if len(predictions) == 0 {
		return models.Insights{
			BestCandidateID: NoCandidateID,
			AverageScore:    0,
			Summary:         summary(0, models.TrafficModerate),
		}
	}

	var total int
	for _, p := range predictions {
		total += p.Score
	}
	best := predictions[0]
	return models.Insights{
		BestCandidateID: best.ID,
		AverageScore:    utils.RoundInt(float64(total) / float64(len(predictions))),
		Summary:         summary(len(predictions), best.TrafficDensity),
	}
}

func summary(count int, traffic models.TrafficDensity) string {
	return fmt.Sprintf("Found %d spots near your destination. Traffic is %s.", count, traffic)
}
