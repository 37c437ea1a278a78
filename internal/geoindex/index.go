// Package geoindex provides geo-distance candidate retrieval backed by Bleve.
package geoindex

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/tomaru/internal/models"
)

const (
	fieldLocation = "location"
	fieldName     = "name"
	fieldLat      = "lat"
	fieldLng      = "lng"
	fieldDemand   = "demand"
)

// Index implements candidate retrieval using a Bleve geopoint field.
type Index struct {
	index        bleve.Index
	windowMeters float64
}

// NewIndex creates or opens a Bleve index at path. An empty path creates an in-memory index.
// windowMeters bounds FetchCandidates to a geo-distance query around the query point;
// zero or negative returns every indexed candidate.
// If the mapping changes, remove the index directory to force a rebuild.
func NewIndex(path string, windowMeters float64) (*Index, error) {
	if path == "" {
		index, err := bleve.NewMemOnly(buildMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory geo index: %w", err)
		}
		return &Index{index: index, windowMeters: windowMeters}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open geo index: %w", openErr)
		}
		return &Index{index: index, windowMeters: windowMeters}, nil
	}

	index, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create geo index: %w", err)
	}
	return &Index{index: index, windowMeters: windowMeters}, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(fieldLocation, bleve.NewGeoPointFieldMapping())

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(fieldName, nameMapping)

	for _, f := range []string{fieldLat, fieldLng, fieldDemand} {
		docMapping.AddFieldMappingsAt(f, bleve.NewNumericFieldMapping())
	}

	im.AddDocumentMapping("candidate", docMapping)
	im.DefaultType = "candidate"
	im.DefaultMapping = docMapping
	return im
}

func document(c *models.Candidate) map[string]interface{} {
	return map[string]interface{}{
		fieldLocation: map[string]interface{}{"lat": c.Latitude, "lon": c.Longitude},
		fieldName:     c.Name,
		fieldLat:      c.Latitude,
		fieldLng:      c.Longitude,
		fieldDemand:   c.HistoricalDemand,
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Index adds or replaces a candidate.
func (x *Index) Index(ctx context.Context, c *models.Candidate) error {
	return x.index.Index(docID(c.ID), document(c))
}

// IndexBatch adds or replaces candidates in one batch.
func (x *Index) IndexBatch(ctx context.Context, candidates []*models.Candidate) error {
	batch := x.index.NewBatch()
	for _, c := range candidates {
		if err := batch.Index(docID(c.ID), document(c)); err != nil {
			return fmt.Errorf("failed to batch candidate %d: %w", c.ID, err)
		}
	}
	return x.index.Batch(batch)
}

// Delete removes a candidate by ID.
func (x *Index) Delete(ctx context.Context, id int64) error {
	return x.index.Delete(docID(id))
}

// FetchCandidates returns the indexed candidates around the point, ordered by ID.
func (x *Index) FetchCandidates(ctx context.Context, lat, lng float64) ([]*models.Candidate, error) {
	total, err := x.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count geo index: %w", err)
	}
	if total == 0 {
		return []*models.Candidate{}, nil
	}

	var q blevequery.Query
	if x.windowMeters > 0 {
		gq := bleve.NewGeoDistanceQuery(lng, lat, strconv.FormatFloat(x.windowMeters, 'f', -1, 64)+"m")
		gq.SetField(fieldLocation)
		q = gq
	} else {
		q = bleve.NewMatchAllQuery()
	}

	req := bleve.NewSearchRequestOptions(q, int(total), 0, false)
	req.Fields = []string{fieldName, fieldLat, fieldLng, fieldDemand}
	results, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geo search failed: %w", err)
	}

	candidates := make([]*models.Candidate, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		c := &models.Candidate{ID: id}
		c.Name, _ = hit.Fields[fieldName].(string)
		c.Latitude, _ = hit.Fields[fieldLat].(float64)
		c.Longitude, _ = hit.Fields[fieldLng].(float64)
		c.HistoricalDemand, _ = hit.Fields[fieldDemand].(float64)
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates, nil
}

// DocCount returns the number of indexed candidates.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close closes the index.
func (x *Index) Close() error {
	return x.index.Close()
}
