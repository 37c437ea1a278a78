package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/models"
)

// Sink receives imported candidates. Sinks run in order, so a store that assigns IDs
// must come before sinks that key on them.
type Sink func(ctx context.Context, candidates []*models.Candidate) error

// Importer reads candidate files and forwards them to sinks.
type Importer struct {
	sinks  []Sink
	logger *zap.Logger
}

// New creates an Importer writing to sinks.
func New(logger *zap.Logger, sinks ...Sink) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{sinks: sinks, logger: logger}
}

// Import reads path and writes its candidates to every sink. It returns the number
// of candidates imported.
func (im *Importer) Import(ctx context.Context, path string) (int, error) {
	candidates, err := ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	for _, sink := range im.sinks {
		if err := sink(ctx, candidates); err != nil {
			return 0, fmt.Errorf("import %s: %w", path, err)
		}
	}
	im.logger.Info("Candidates imported", zap.String("path", path), zap.Int("count", len(candidates)))
	return len(candidates), nil
}

// ImportAll imports every path, stopping at the first failure.
func (im *Importer) ImportAll(ctx context.Context, paths []string) (int, error) {
	var total int
	for _, p := range paths {
		n, err := im.Import(ctx, p)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
