package models

import (
	"errors"
	"math"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name       string
		query      *SearchQuery
		wantErr    bool
		wantRadius int
	}{
		{"valid with radius", &SearchQuery{Latitude: 19.076, Longitude: 72.8777, RadiusMeters: 5000}, false, 5000},
		{"sets default radius", &SearchQuery{Latitude: 19.076, Longitude: 72.8777}, false, 500},
		{"caps radius at max", &SearchQuery{Latitude: 19.076, Longitude: 72.8777, RadiusMeters: 90000}, false, 50000},
		{"negative radius", &SearchQuery{Latitude: 1, Longitude: 1, RadiusMeters: -1}, true, 0},
		{"nan latitude", &SearchQuery{Latitude: math.NaN(), Longitude: 1}, true, 0},
		{"inf longitude", &SearchQuery{Latitude: 1, Longitude: math.Inf(-1)}, true, 0},
		{"latitude out of range", &SearchQuery{Latitude: 91, Longitude: 1}, true, 0},
		{"longitude out of range", &SearchQuery{Latitude: 1, Longitude: 181}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(500, 50000)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if tt.query.RadiusMeters != tt.wantRadius {
				t.Errorf("RadiusMeters = %d, want %d", tt.query.RadiusMeters, tt.wantRadius)
			}
		})
	}
}

func TestSearchQuery_ValidateTrimsQuery(t *testing.T) {
	q := &SearchQuery{Latitude: 1, Longitude: 1, Query: "  andheri station  "}
	if err := q.Validate(500, 0); err != nil {
		t.Fatal(err)
	}
	if q.Query != "andheri station" {
		t.Errorf("Query = %q", q.Query)
	}
}

func TestCandidateInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   CandidateInput
		wantErr bool
	}{
		{"valid fraction demand", CandidateInput{Name: "Lot A", Latitude: 19.07, Longitude: 72.87, HistoricalDemand: 0.7}, false},
		{"valid percent demand", CandidateInput{Name: "Lot B", Latitude: 19.07, Longitude: 72.87, HistoricalDemand: 70}, false},
		{"missing name", CandidateInput{Name: "  ", Latitude: 1, Longitude: 1}, true},
		{"bad latitude", CandidateInput{Name: "x", Latitude: -95, Longitude: 1}, true},
		{"demand above 100", CandidateInput{Name: "x", Latitude: 1, Longitude: 1, HistoricalDemand: 120}, true},
		{"negative demand", CandidateInput{Name: "x", Latitude: 1, Longitude: 1, HistoricalDemand: -0.1}, true},
		{"negative id", CandidateInput{ID: -4, Name: "x", Latitude: 1, Longitude: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCandidateInput_Candidate(t *testing.T) {
	in := &CandidateInput{ID: 7, Name: " Lot C ", Latitude: 18.52, Longitude: 73.85, HistoricalDemand: 0.4}
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	c := in.Candidate()
	if c.ID != 7 || c.Name != "Lot C" || c.Latitude != 18.52 || c.Longitude != 73.85 || c.HistoricalDemand != 0.4 {
		t.Errorf("unexpected candidate: %+v", c)
	}
}
