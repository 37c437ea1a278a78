// Package cli provides CLI utilities for Tomaru.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

const maxNameWidth = 32

// WriteSearchResults writes ranked predictions to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\n%s\n", response.Insights.Summary)
	fmt.Fprintf(w, "Radius %dm, average score %d, %dms\n\n",
		response.RadiusMeters, response.Insights.AverageScore, response.QueryTime)
	for i, p := range response.Predictions {
		writeOnePrediction(w, i+1, p, p.ID == response.Insights.BestCandidateID)
	}
}

func writeOnePrediction(w io.Writer, rank int, p *models.Prediction, best bool) {
	marker := " "
	if best {
		marker = "*"
	}
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%s%d. %s (id %d)\n", marker, rank, utils.Truncate(p.Name, maxNameWidth), p.ID)
	fmt.Fprintf(w, "   Score: %d | Availability: %s | Spaces: %d\n", p.Score, p.Tier, p.AvailableSpaces)
	fmt.Fprintf(w, "   %s away, %s walk | Traffic: %s | %s\n",
		p.DistanceLabel, p.WalkingTime, p.TrafficDensity, p.LegalStatus)
	fmt.Fprintf(w, "   %.6f, %.6f\n", p.Location.Lat, p.Location.Lng)
}
