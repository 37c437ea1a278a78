package search

import (
	"github.com/hyperjump/tomaru/internal/config"
	"github.com/hyperjump/tomaru/internal/models"
)

// ProcessQuery validates and applies defaults to the search query.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig) error {
	if query == nil {
		return &StageError{Stage: StageValidate, Err: ErrInvalidInput}
	}
	if err := query.Validate(cfg.DefaultRadiusMeters, cfg.MaxRadiusMeters); err != nil {
		return &StageError{Stage: StageValidate, Err: err}
	}
	return nil
}
