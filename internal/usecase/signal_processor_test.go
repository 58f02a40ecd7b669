package usecase

import (
	"context"
	"errors"
	"testing"

	"TradeCoin/internal/domain/models"
)

type fakePublisher struct {
	published []*models.CanonicalSignal
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, s *models.CanonicalSignal) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, s)
	return nil
}
func (f *fakePublisher) PublishBatch(ctx context.Context, signals []*models.CanonicalSignal) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, signals...)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

func TestProcessRoutesToKafka(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStorage{}
	p := NewSignalProcessor(pub, store, newFakeMetrics(), "kafka")

	if err := p.Process(context.Background(), &models.CanonicalSignal{ID: "x", CoinSymbol: "BTC"}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(pub.published) != 1 || len(store.stored) != 0 {
		t.Fatalf("kafka backend should publish only, pub=%d store=%d", len(pub.published), len(store.stored))
	}
}

func TestProcessRoutesToClickHouse(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStorage{}
	p := NewSignalProcessor(pub, store, newFakeMetrics(), "clickhouse")

	if err := p.Process(context.Background(), &models.CanonicalSignal{ID: "x", CoinSymbol: "BTC"}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(store.stored) != 1 || len(pub.published) != 0 {
		t.Fatalf("clickhouse backend should store only, pub=%d store=%d", len(pub.published), len(store.stored))
	}
}

func TestProcessUnknownBackend(t *testing.T) {
	m := newFakeMetrics()
	p := NewSignalProcessor(&fakePublisher{}, &fakeStorage{}, m, "s3")

	if err := p.Process(context.Background(), &models.CanonicalSignal{ID: "x"}); err == nil {
		t.Fatalf("unknown backend should error")
	}
	if m.errs["process"] != 1 {
		t.Fatalf("error should be recorded, got %v", m.errs)
	}
}

func TestProcessBatchPropagatesBackendError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	p := NewSignalProcessor(pub, &fakeStorage{}, newFakeMetrics(), "kafka")

	batch := []*models.CanonicalSignal{{ID: "a"}, {ID: "b"}}
	if err := p.ProcessBatch(context.Background(), batch); err == nil {
		t.Fatalf("broker error should propagate")
	}
}
