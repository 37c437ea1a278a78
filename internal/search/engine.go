// Package search runs parking searches: validation, retrieval, ranking and history.
package search

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/config"
	"github.com/hyperjump/tomaru/internal/geo"
	"github.com/hyperjump/tomaru/internal/history"
	"github.com/hyperjump/tomaru/internal/metrics"
	"github.com/hyperjump/tomaru/internal/models"
	"github.com/hyperjump/tomaru/internal/ranking"
)

// Retriever returns the raw candidates that may lie near a point.
type Retriever interface {
	FetchCandidates(ctx context.Context, lat, lng float64) ([]*models.Candidate, error)
}

// Engine runs parking searches.
type Engine struct {
	retriever Retriever
	ranker    *ranking.Ranker
	config    *config.SearchConfig
	recorder  history.Recorder
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sets the search history recorder.
func WithRecorder(r history.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(retriever Retriever, ranker *ranking.Ranker, cfg *config.SearchConfig, opts ...Option) *Engine {
	if cfg == nil {
		cfg = &config.SearchConfig{}
	}
	e := &Engine{
		retriever: retriever,
		ranker:    ranker,
		config:    cfg,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search validates the query, records it in history when it carries free text,
// retrieves candidates and ranks them. Retrieval failures are not retried.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query, e.config); err != nil {
		e.metrics.ObserveSearch(metrics.OutcomeInvalidInput, time.Since(startTime))
		return nil, err
	}

	if query.Query != "" && e.recorder != nil {
		record := history.NewRecord(query.Query, query.Latitude, query.Longitude)
		if err := e.recorder.Record(ctx, record); err != nil {
			e.metrics.HistoryError()
			e.logger.Warn("Failed to record search history", zap.String("id", record.ID), zap.Error(err))
		}
	}

	candidates, err := e.retriever.FetchCandidates(ctx, query.Latitude, query.Longitude)
	if err != nil {
		e.metrics.ObserveSearch(metrics.OutcomeRetrievalError, time.Since(startTime))
		e.logger.Error("Candidate retrieval failed",
			zap.Float64("lat", query.Latitude),
			zap.Float64("lng", query.Longitude),
			zap.Error(err))
		return nil, &StageError{Stage: StageRetrieve, Err: err}
	}

	session := e.newSession(query.Seed)
	origin := geo.Coordinate{Lat: query.Latitude, Lng: query.Longitude}
	result := e.ranker.Rank(origin, float64(query.RadiusMeters), candidates, session)

	e.metrics.ObserveRanking(len(result.Predictions)-fallbackCount(result), result.OutOfRadius, result.Invalid, result.Fallback)
	e.metrics.ObserveSearch(metrics.OutcomeOK, time.Since(startTime))
	e.logRanking(query, result)

	return &models.SearchResponse{
		Predictions:  result.Predictions,
		Insights:     result.Insights,
		RadiusMeters: query.RadiusMeters,
		QueryTime:    time.Since(startTime).Milliseconds(),
	}, nil
}

func (e *Engine) newSession(seed *uint64) *ranking.Session {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}
	session := ranking.NewSession(s)
	session.Explain = e.logger.Core().Enabled(zap.DebugLevel)
	return session
}

func fallbackCount(result *ranking.RankResult) int {
	if result.Fallback {
		return len(result.Predictions)
	}
	return 0
}

func (e *Engine) logRanking(query *models.SearchQuery, result *ranking.RankResult) {
	if result.Fallback {
		e.logger.Info("No candidates in radius, returning fallback predictions",
			zap.Float64("lat", query.Latitude),
			zap.Float64("lng", query.Longitude),
			zap.Int("radius", query.RadiusMeters),
			zap.Int("retrieved", result.Retrieved))
	}
	for id, b := range result.Breakdowns {
		e.logger.Debug("Score breakdown",
			zap.Int64("candidate", id),
			zap.Float64("distance", b.DistanceScore),
			zap.Float64("demand", b.DemandScore),
			zap.Float64("traffic", b.TrafficScore),
			zap.Float64("baseline", b.Baseline),
			zap.Int("score", b.Final))
	}
}
