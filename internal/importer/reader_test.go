package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/internal/storage"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_CSV(t *testing.T) {
	path := writeFile(t, "spots.csv", `id,Name,Latitude,Lon,Probability
1,Marine Drive,18.9440,72.8230,0.8
, Bandra Station ,19.0544,72.8402,65%

2,Dadar West,19.0186,72.8424,
`)

	candidates, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}

	tests := []struct {
		id     int64
		name   string
		lat    float64
		demand float64
	}{
		{1, "Marine Drive", 18.9440, 0.8},
		{0, "Bandra Station", 19.0544, 65},
		{2, "Dadar West", 19.0186, 0},
	}
	for i, tt := range tests {
		c := candidates[i]
		if c.ID != tt.id || c.Name != tt.name || c.Latitude != tt.lat || c.HistoricalDemand != tt.demand {
			t.Errorf("candidate %d = %+v, want id=%d name=%q lat=%v demand=%v", i, c, tt.id, tt.name, tt.lat, tt.demand)
		}
	}
}

func TestReadFile_CSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing lng column", "name,lat\nA,1\n"},
		{"bad latitude", "name,lat,lng\nA,north,2\n"},
		{"latitude out of range", "name,lat,lng\nA,91,2\n"},
		{"missing name", "name,lat,lng\n,1,2\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			_, err := ReadFile(path)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestReadFile_Unsupported(t *testing.T) {
	path := writeFile(t, "spots.json", "[]")
	if _, err := ReadFile(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if Supported(path) {
		t.Error("json should not be supported")
	}
	if !Supported("a.XLSX") || !Supported("b.csv") {
		t.Error("csv and xlsx should be supported")
	}
}

func TestReadFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"name", "lat", "lng", "demand"},
		{"Fort Garage", 18.9322, 72.8351, 72},
		{"Worli Sea Face", 19.0096, 72.8155, 0.35},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "spots.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	candidates, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Name != "Fort Garage" || candidates[0].HistoricalDemand != 72 {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[1].Latitude != 19.0096 || candidates[1].Longitude != 72.8155 {
		t.Errorf("unexpected coordinates: %+v", candidates[1])
	}
}

func TestImporter_Import(t *testing.T) {
	path := writeFile(t, "spots.csv", "name,lat,lng\nA,19.07,72.87\nB,19.08,72.88\n")

	var order []string
	var received int
	store := func(ctx context.Context, candidates []*models.Candidate) error {
		order = append(order, "store")
		for i, c := range candidates {
			c.ID = int64(i + 1)
		}
		return nil
	}
	index := func(ctx context.Context, candidates []*models.Candidate) error {
		order = append(order, "index")
		for _, c := range candidates {
			if c.ID == 0 {
				t.Error("index sink saw candidate without id")
			}
		}
		received = len(candidates)
		return nil
	}

	im := New(zap.NewNop(), store, index)
	n, err := im.Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 || received != 2 {
		t.Errorf("imported %d, index received %d", n, received)
	}
	if len(order) != 2 || order[0] != "store" || order[1] != "index" {
		t.Errorf("sinks ran in order %v", order)
	}
}

func TestImporter_SinkError(t *testing.T) {
	path := writeFile(t, "spots.csv", "name,lat,lng\nA,19.07,72.87\n")
	boom := errors.New("disk full")

	im := New(nil, func(context.Context, []*models.Candidate) error { return boom })
	if _, err := im.Import(context.Background(), path); !errors.Is(err, boom) {
		t.Errorf("expected sink error, got %v", err)
	}
}

func TestImporter_ReimportIsIdempotent(t *testing.T) {
	path := writeFile(t, "spots.csv", "name,lat,lng,demand\nA,19.07,72.87,40\nB,19.08,72.88,60\n")
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "tomaru.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	var ids [][]int64
	record := func(ctx context.Context, candidates []*models.Candidate) error {
		var run []int64
		for _, c := range candidates {
			run = append(run, c.ID)
		}
		ids = append(ids, run)
		return nil
	}
	im := New(zap.NewNop(), store.BatchUpsertCandidates, record)
	for i := 0; i < 3; i++ {
		if _, err := im.Import(ctx, path); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}

	n, err := store.CountCandidates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountCandidates = %d after three imports, want 2", n)
	}
	for i := 1; i < len(ids); i++ {
		if len(ids[i]) != 2 || ids[i][0] != ids[0][0] || ids[i][1] != ids[0][1] {
			t.Errorf("import %d assigned ids %v, want %v", i, ids[i], ids[0])
		}
	}

	if err := os.WriteFile(path, []byte("name,lat,lng,demand\nA,19.07,72.87,90\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := im.Import(ctx, path); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetCandidate(ctx, ids[0][0])
	if err != nil {
		t.Fatal(err)
	}
	if got.HistoricalDemand != 90 {
		t.Errorf("demand = %v after edit, want 90", got.HistoricalDemand)
	}
	if n, _ := store.CountCandidates(ctx); n != 2 {
		t.Errorf("CountCandidates = %d after edit, want 2", n)
	}
}
