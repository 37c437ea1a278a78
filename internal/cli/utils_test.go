package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/tomaru/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Predictions: []*models.Prediction{
			{ID: 7, Name: "Central Station Multi-Level Parking Structure", Location: models.Location{Lat: 19.0765, Lng: 72.878},
				Tier: models.TierMedium, Score: 79, AvailableSpaces: 4, TrafficDensity: models.TrafficModerate,
				LegalStatus: "Verified", DistanceLabel: "60m", WalkingTime: "1 min"},
			{ID: 3, Name: "Lot B", Tier: models.TierLow, Score: 40, AvailableSpaces: 9,
				TrafficDensity: models.TrafficModerate, LegalStatus: "Verified", DistanceLabel: "350m", WalkingTime: "4 min"},
		},
		Insights:     models.Insights{BestCandidateID: 7, AverageScore: 60, Summary: "Found 2 spots near your destination. Traffic is Moderate."},
		RadiusMeters: 500,
		QueryTime:    3,
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Found 2 spots near your destination. Traffic is Moderate.",
		"Radius 500m, average score 60",
		"*1. Central Station Multi-Level Park... (id 7)",
		" 2. Lot B (id 3)",
		"Score: 79 | Availability: Medium | Spaces: 4",
		"350m away, 4 min walk",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Predictions) != 2 || decoded.Predictions[0].DistanceLabel != "60m" {
		t.Errorf("decoded = %+v", decoded.Predictions)
	}
	if decoded.Insights.BestCandidateID != 7 {
		t.Errorf("best = %d", decoded.Insights.BestCandidateID)
	}
}

func TestWriteSearchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.SearchResponse{Insights: models.Insights{Summary: "Found 0 spots near your destination. Traffic is Moderate."}}
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "───") {
		t.Error("expected no prediction rows")
	}
}
