package repository

import (
	"context"
	"time"

	"TradeCoin/internal/domain/models"
)

// SignalFeed is an upstream source of raw signal records. Poll and stream
// implementations both surface records on a channel; cadence and reconnects
// are owned by the implementation, never by the normalizer.
type SignalFeed interface {
	Connect(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.RawSignal, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, s *models.CanonicalSignal) error
	PublishBatch(ctx context.Context, signals []*models.CanonicalSignal) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, s *models.CanonicalSignal) error
	StoreBatch(ctx context.Context, signals []*models.CanonicalSignal) error
	// QueryLatest returns up to limit signals for symbol (all symbols when
	// empty) newer than since, most recent first.
	QueryLatest(ctx context.Context, symbol string, since time.Time, limit int) ([]*models.CanonicalSignal, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// UsageCounter tracks per-user consumption against tier limits.
type UsageCounter interface {
	AddSignalsServed(ctx context.Context, userID string, n int) (int64, error)
	SignalsServedToday(ctx context.Context, userID string) (int64, error)
}

type Metrics interface {
	RecordSignal(backend, symbol string)
	RecordDrop(reason string)
	RecordError(kind string)
	RecordConfidence(symbol string, score float64)
	RecordServed(tier string, n int)
	RecordLatency(op string, seconds float64)
}
