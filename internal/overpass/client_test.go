package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const parkingResponse = `{
  "version": 0.6,
  "generator": "test",
  "elements": [
    {"type": "node", "id": 11, "lat": 19.0765, "lon": 72.8780, "tags": {"amenity": "parking", "name": "Station Lot"}},
    {"type": "node", "id": 12, "lat": 19.0770, "lon": 72.8790, "tags": {"amenity": "parking", "access": "private"}},
    {"type": "node", "id": 13, "lat": 19.0771, "lon": 72.8791, "tags": {"amenity": "parking"}},
    {"type": "way", "id": 500, "nodes": [21, 22], "tags": {"amenity": "parking", "parking": "surface"}},
    {"type": "node", "id": 21, "lat": 19.0750, "lon": 72.8760},
    {"type": "node", "id": 22, "lat": 19.0760, "lon": 72.8770}
  ]
}`

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(19.076, 72.8777, 500)

	if !strings.Contains(q, `node["amenity"="parking"](around:500,19.076,72.8777)`) {
		t.Errorf("missing node filter in query:\n%s", q)
	}
	if !strings.Contains(q, `way["amenity"="parking"](around:500,19.076,72.8777)`) {
		t.Errorf("missing way filter in query:\n%s", q)
	}
	if !strings.HasPrefix(q, "[out:json]") {
		t.Errorf("query must request json output:\n%s", q)
	}
}

func TestClient_FetchCandidates(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotQuery = r.FormValue("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(parkingResponse))
	}))
	defer srv.Close()

	client := NewClient(Config{Endpoint: srv.URL, RadiusMeters: 800, DefaultDemand: 0.5})
	candidates, err := client.FetchCandidates(context.Background(), 19.076, 72.8777)
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}

	if !strings.Contains(gotQuery, "around:800") {
		t.Errorf("expected radius in query, got %q", gotQuery)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 public parking candidates, got %d", len(candidates))
	}

	// ordered by id: way -500 first, then nodes 11 and 13
	if candidates[0].ID != -500 || candidates[1].ID != 11 || candidates[2].ID != 13 {
		t.Errorf("unexpected ids: %d %d %d", candidates[0].ID, candidates[1].ID, candidates[2].ID)
	}
	way := candidates[0]
	if way.Latitude < 19.0754 || way.Latitude > 19.0756 || way.Longitude < 72.8764 || way.Longitude > 72.8766 {
		t.Errorf("way center = %v,%v, want 19.0755,72.8765", way.Latitude, way.Longitude)
	}
	if way.Name != "Parking 500" {
		t.Errorf("way name = %q", way.Name)
	}
	if candidates[1].Name != "Station Lot" {
		t.Errorf("node name = %q", candidates[1].Name)
	}
	for _, c := range candidates {
		if c.HistoricalDemand != 0.5 {
			t.Errorf("candidate %d demand = %v, want 0.5", c.ID, c.HistoricalDemand)
		}
	}
}

func TestClient_FetchCandidatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Config{Endpoint: srv.URL, RadiusMeters: 500})
	if _, err := client.FetchCandidates(context.Background(), 19.076, 72.8777); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

func TestClient_FetchCandidatesCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(parkingResponse))
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Config{Endpoint: srv.URL, RadiusMeters: 500, Timeout: 5 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.FetchCandidates(ctx, 19.076, 72.8777); err == nil {
		t.Fatal("expected error after context deadline")
	}
}

func TestClient_FetchCandidatesCached(t *testing.T) {
	var requests atomic.Int32
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_ = r.ParseForm()
		gotQuery = r.FormValue("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(parkingResponse))
	}))
	defer srv.Close()

	client := NewClient(Config{Endpoint: srv.URL, RadiusMeters: 800, CacheSize: 8, CacheTTL: time.Minute})
	first, err := client.FetchCandidates(context.Background(), 19.07601, 72.87771)
	if err != nil {
		t.Fatal(err)
	}
	second, err := client.FetchCandidates(context.Background(), 19.0764, 72.8776)
	if err != nil {
		t.Fatal(err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected one upstream request for the same cell, got %d", n)
	}
	if !strings.Contains(gotQuery, "around:880,19.076,72.878") {
		t.Errorf("expected cell-centered widened query, got %q", gotQuery)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Errorf("cached result sizes = %d, %d; want 3", len(first), len(second))
	}

	if _, err := client.FetchCandidates(context.Background(), 19.1, 72.9); err != nil {
		t.Fatal(err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("expected a new request for a different cell, got %d", n)
	}
}
