package geoindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/tomaru/internal/models"
)

func testCandidates() []*models.Candidate {
	return []*models.Candidate{
		{ID: 3, Name: "Near Lot", Latitude: 19.0765, Longitude: 72.8780, HistoricalDemand: 0.7},
		{ID: 1, Name: "Close Garage", Latitude: 19.0750, Longitude: 72.8770, HistoricalDemand: 40},
		{ID: 2, Name: "Far Lot", Latitude: 19.2000, Longitude: 72.9500, HistoricalDemand: 0.2},
	}
}

func TestIndex_FetchCandidatesWithinWindow(t *testing.T) {
	idx, err := NewIndex("", 1000)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()
	ctx := context.Background()

	if err := idx.IndexBatch(ctx, testCandidates()); err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}

	got, err := idx.FetchCandidates(ctx, 19.076, 72.8777)
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates within 1km, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("expected ids [1 3], got [%d %d]", got[0].ID, got[1].ID)
	}
	if got[0].Name != "Close Garage" || got[0].HistoricalDemand != 40 {
		t.Errorf("stored fields not returned: %+v", got[0])
	}
	if got[1].Latitude != 19.0765 || got[1].Longitude != 72.8780 {
		t.Errorf("coordinates not returned: %+v", got[1])
	}
}

func TestIndex_FetchCandidatesUnbounded(t *testing.T) {
	idx, err := NewIndex(filepath.Join(t.TempDir(), "geo"), 0)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()
	ctx := context.Background()

	for _, c := range testCandidates() {
		if err := idx.Index(ctx, c); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}

	got, err := idx.FetchCandidates(ctx, 0, 0)
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}

	if err := idx.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	n, err := idx.DocCount()
	if err != nil || n != 2 {
		t.Errorf("DocCount after delete: %v, %d", err, n)
	}
}

func TestIndex_Empty(t *testing.T) {
	idx, err := NewIndex("", 500)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	got, err := idx.FetchCandidates(context.Background(), 19.076, 72.8777)
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestIndex_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo")
	idx, err := NewIndex(path, 0)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.IndexBatch(context.Background(), testCandidates()); err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx, err = NewIndex(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()
	n, err := idx.DocCount()
	if err != nil || n != 3 {
		t.Errorf("DocCount after reopen: %v, %d", err, n)
	}
}
