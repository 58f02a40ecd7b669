package usecase

import (
	"context"
	"testing"
	"time"

	"TradeCoin/internal/domain/models"
)

func validRaw() *models.RawSignal {
	return &models.RawSignal{
		Symbol:                 "btc",
		Signal:                 "BUY",
		Confidence:             0.85,
		Sentiment:              "bullish",
		RiskLevel:              "HIGH",
		LeverageRecommendation: 3,
		Reason:                 "momentum breakout",
		Timestamp:              time.Now(),
		UrgencyScore:           0.9,
	}
}

func TestIngestorForwardsNormalized(t *testing.T) {
	store := &fakeStorage{}
	proc := NewSignalProcessor(&fakePublisher{}, store, newFakeMetrics(), "clickhouse")
	ing := NewRawIngestor(proc, newFakeMetrics(), nil)

	if err := ing.Process(context.Background(), validRaw()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored signal, got %d", len(store.stored))
	}
	if store.stored[0].CoinSymbol != "BTC" {
		t.Fatalf("symbol should be canonicalized, got %s", store.stored[0].CoinSymbol)
	}
}

func TestIngestorDropsContractViolations(t *testing.T) {
	store := &fakeStorage{}
	proc := NewSignalProcessor(&fakePublisher{}, store, newFakeMetrics(), "clickhouse")
	m := newFakeMetrics()
	ing := NewRawIngestor(proc, m, nil)

	raw := validRaw()
	raw.Signal = "MAYBE"
	if err := ing.Process(context.Background(), raw); err != nil {
		t.Fatalf("contract violations are dropped, not retried: %v", err)
	}
	if len(store.stored) != 0 {
		t.Fatalf("invalid signal must not reach storage")
	}
	if m.drops["normalize"] != 1 {
		t.Fatalf("drop should be recorded, got %v", m.drops)
	}
}

func TestIngestorNilRecord(t *testing.T) {
	proc := NewSignalProcessor(&fakePublisher{}, &fakeStorage{}, newFakeMetrics(), "clickhouse")
	ing := NewRawIngestor(proc, newFakeMetrics(), nil)
	if err := ing.Process(context.Background(), nil); err != nil {
		t.Fatalf("nil record: %v", err)
	}
}
