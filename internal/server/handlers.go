package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/config"
	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/internal/search"
	"github.com/hyperjump/tomaru/internal/storage"
)

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	query, err := parseSearchParams(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.search(w, r, query)
}

func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.search(w, r, &query)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, query *models.SearchQuery) {
	s.logger.Debug("search request",
		zap.Float64("lat", query.Latitude),
		zap.Float64("lng", query.Longitude),
		zap.Int("radius", query.RadiusMeters))
	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		if search.IsClientError(err) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// parseSearchParams reads lat, lng, radius, query and seed from the URL query string.
func parseSearchParams(r *http.Request) (*models.SearchQuery, error) {
	params := r.URL.Query()
	query := &models.SearchQuery{Query: params.Get("query")}

	lat, err := requiredFloat(params.Get("lat"), "lat")
	if err != nil {
		return nil, err
	}
	lng, err := requiredFloat(params.Get("lng"), "lng")
	if err != nil {
		return nil, err
	}
	query.Latitude, query.Longitude = lat, lng

	if v := params.Get("radius"); v != "" {
		radius, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: radius must be an integer", models.ErrInvalidInput)
		}
		query.RadiusMeters = radius
	}
	if v := params.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: seed must be an unsigned integer", models.ErrInvalidInput)
		}
		query.Seed = &seed
	}
	return query, nil
}

func requiredFloat(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("%w: %s is required", models.ErrInvalidInput, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", models.ErrInvalidInput, name)
	}
	return f, nil
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var input models.CandidateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	candidate := input.Candidate()
	s.logger.Debug("create candidate request", zap.String("name", candidate.Name))
	err := s.storage.CreateCandidate(r.Context(), candidate)
	if errors.Is(err, storage.ErrConflict) {
		s.respondError(w, http.StatusConflict, "candidate already exists")
		return
	}
	if err != nil {
		s.logger.Error("create candidate failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.index != nil {
		if err := s.index.Index(r.Context(), candidate); err != nil {
			s.logger.Warn("geo index update failed", zap.Int64("id", candidate.ID), zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusCreated, candidate)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid candidate id")
		return
	}
	candidate, err := s.storage.GetCandidate(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "candidate not found")
		return
	}
	if err != nil {
		s.logger.Error("get candidate failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, candidate)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateCount, err := s.storage.CountCandidates(ctx)
	if err != nil {
		s.logger.Error("status: count candidates failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	searchCount, err := s.storage.CountSearches(ctx)
	if err != nil {
		s.logger.Error("status: count searches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"candidates": candidateCount,
		"searches":   searchCount,
	}

	cfg := s.config
	configInfo := map[string]interface{}{
		"retriever_source":      cfg.Retriever.Source,
		"storage_driver":        cfg.Storage.Driver,
		"default_radius_meters": cfg.Search.DefaultRadiusMeters,
		"max_radius_meters":     cfg.Search.MaxRadiusMeters,
		"fallback_enabled":      cfg.Search.FallbackOrDefault(),
		"high_threshold":        cfg.Ranking.HighThreshold,
		"medium_threshold":      cfg.Ranking.MediumThreshold,
	}
	var paths []string
	if cfg.Storage.Driver != config.DriverPostgres {
		configInfo["database_path"] = cfg.Storage.DatabasePath
		paths = append(paths, cfg.Storage.DatabasePath)
	}
	if cfg.Retriever.Source == config.SourceGeoIndex {
		configInfo["geo_index_path"] = cfg.Storage.GeoIndexPath
		paths = append(paths, cfg.Storage.GeoIndexPath)
	}
	if len(paths) > 0 {
		if diskBytes, err := storage.DiskUsageBytes(paths...); err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
