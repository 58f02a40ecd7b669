package usecase

import (
	"context"
	"testing"

	"TradeCoin/internal/domain/models"
)

type fakeQueue struct {
	types    []string
	payloads []interface{}
}

func (f *fakeQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	f.types = append(f.types, msgType)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestNotifyEnqueuesHighConfidence(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, 80)

	sig := &models.CanonicalSignal{ID: "s1", CoinSymbol: "BTC", ConfidenceScore: 92}
	if err := n.Notify(context.Background(), models.TierPremium, sig); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(q.types) != 1 || q.types[0] != "signal.alert" {
		t.Fatalf("expected one signal.alert job, got %v", q.types)
	}
	alert, ok := q.payloads[0].(SignalAlert)
	if !ok {
		t.Fatalf("payload type %T", q.payloads[0])
	}
	if alert.SignalID != "s1" || alert.ConfidenceScore != 92 {
		t.Fatalf("unexpected alert %+v", alert)
	}
}

func TestNotifySkipsBelowBar(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, 80)

	sig := &models.CanonicalSignal{ID: "s2", ConfidenceScore: 79}
	if err := n.Notify(context.Background(), models.TierPro, sig); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(q.types) != 0 {
		t.Fatalf("low-confidence signal must not enqueue")
	}
}

func TestNotifySkipsTiersWithoutNotifications(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, 80)

	sig := &models.CanonicalSignal{ID: "s3", ConfidenceScore: 95}
	if err := n.Notify(context.Background(), models.TierFree, sig); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(q.types) != 0 {
		t.Fatalf("free tier has notifications disabled")
	}
}

func TestNotifyUnknownTier(t *testing.T) {
	n := NewNotifier(&fakeQueue{}, 80)
	sig := &models.CanonicalSignal{ID: "s4", ConfidenceScore: 95}
	if err := n.Notify(context.Background(), models.Tier("vip"), sig); err == nil {
		t.Fatalf("unknown tier should error, not default silently")
	}
}
