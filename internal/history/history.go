// Package history records parking searches to the candidate store and to NATS.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/hyperjump/tomaru/internal/models"
)

// DefaultSubject is the NATS subject search records are published on.
const DefaultSubject = "tomaru.searches"

// Recorder receives one record per search that carried free text.
type Recorder interface {
	Record(ctx context.Context, record *models.SearchRecord) error
}

// NewRecord returns a record with a fresh id and the current time.
func NewRecord(query string, lat, lng float64) *models.SearchRecord {
	return &models.SearchRecord{
		ID:        uuid.NewString(),
		Query:     query,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: time.Now().UTC(),
	}
}

// SearchLogger persists search records.
type SearchLogger interface {
	LogSearch(ctx context.Context, record *models.SearchRecord) error
}

// StoreRecorder writes records to a store.
type StoreRecorder struct {
	store SearchLogger
}

// NewStoreRecorder creates a StoreRecorder.
func NewStoreRecorder(store SearchLogger) *StoreRecorder {
	return &StoreRecorder{store: store}
}

// Record persists record.
func (r *StoreRecorder) Record(ctx context.Context, record *models.SearchRecord) error {
	if err := r.store.LogSearch(ctx, record); err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSRecorder publishes records as JSON on a subject.
type NATSRecorder struct {
	pub     Publisher
	subject string
}

// NewNATSRecorder creates a NATSRecorder. An empty subject uses DefaultSubject.
func NewNATSRecorder(pub Publisher, subject string) *NATSRecorder {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSRecorder{pub: pub, subject: subject}
}

// Record publishes record.
func (r *NATSRecorder) Record(ctx context.Context, record *models.SearchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal search record: %w", err)
	}
	if err := r.pub.Publish(r.subject, data); err != nil {
		return fmt.Errorf("failed to publish search record: %w", err)
	}
	return nil
}

// Multi fans a record out to every recorder and joins their errors.
type Multi []Recorder

// Record calls every recorder even when an earlier one fails.
func (m Multi) Record(ctx context.Context, record *models.SearchRecord) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NATSConfig configures the NATS connection.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Connect opens a NATS connection that logs disconnects and reconnects.
func Connect(cfg NATSConfig, logger *zap.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = 10
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	options := []nats.Option{
		nats.Name("tomaru"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}
