package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"TradeCoin/internal/domain/models"
	"TradeCoin/internal/services/entitlement"
)

type fakeStorage struct {
	signals   []*models.CanonicalSignal
	lastSince time.Time
	lastLimit int
	storeErr  error
	stored    []*models.CanonicalSignal
}

func (f *fakeStorage) Init(ctx context.Context) error { return nil }
func (f *fakeStorage) Store(ctx context.Context, s *models.CanonicalSignal) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored = append(f.stored, s)
	return nil
}
func (f *fakeStorage) StoreBatch(ctx context.Context, s []*models.CanonicalSignal) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored = append(f.stored, s...)
	return nil
}
func (f *fakeStorage) QueryLatest(ctx context.Context, symbol string, since time.Time, limit int) ([]*models.CanonicalSignal, error) {
	f.lastSince = since
	f.lastLimit = limit
	return f.signals, nil
}
func (f *fakeStorage) Health(ctx context.Context) error { return nil }
func (f *fakeStorage) Close() error                     { return nil }

type fakeUsage struct {
	total int
	fail  bool
}

func (f *fakeUsage) AddSignalsServed(ctx context.Context, userID string, n int) (int64, error) {
	if f.fail {
		return 0, errors.New("redis down")
	}
	f.total += n
	return int64(f.total), nil
}
func (f *fakeUsage) SignalsServedToday(ctx context.Context, userID string) (int64, error) {
	return int64(f.total), nil
}

type fakeMetrics struct {
	served map[string]int
	errs   map[string]int
	drops  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{served: map[string]int{}, errs: map[string]int{}, drops: map[string]int{}}
}
func (f *fakeMetrics) RecordSignal(backend, symbol string)          {}
func (f *fakeMetrics) RecordDrop(reason string)                     { f.drops[reason]++ }
func (f *fakeMetrics) RecordError(kind string)                      { f.errs[kind]++ }
func (f *fakeMetrics) RecordConfidence(symbol string, score float64) {}
func (f *fakeMetrics) RecordServed(tier string, n int)              { f.served[tier] += n }
func (f *fakeMetrics) RecordLatency(op string, seconds float64)     {}

func canned(n int) []*models.CanonicalSignal {
	out := make([]*models.CanonicalSignal, n)
	for i := range out {
		out[i] = &models.CanonicalSignal{
			ID:         fmt.Sprintf("BTC-%d", i),
			CoinSymbol: "BTC",
			Timestamp:  time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestGetSignalsFreeTierTruncates(t *testing.T) {
	store := &fakeStorage{signals: canned(10)}
	m := newFakeMetrics()
	uc := NewSignalsFeedUseCase(store, nil, m)

	res, err := uc.GetSignals(context.Background(), GetSignalsParams{Tier: "free", Limit: 10})
	if err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	if len(res.Signals) != 3 {
		t.Fatalf("free tier should see 3 signals, got %d", len(res.Signals))
	}
	for i, s := range res.Signals {
		if s.ID != fmt.Sprintf("BTC-%d", i) {
			t.Fatalf("order changed at %d: %s", i, s.ID)
		}
	}
	if res.Features.Notifications {
		t.Fatalf("free tier has no notifications")
	}
	if m.served["free"] != 3 {
		t.Fatalf("served metric = %d", m.served["free"])
	}
}

func TestGetSignalsEnterpriseUnbounded(t *testing.T) {
	store := &fakeStorage{signals: canned(10)}
	uc := NewSignalsFeedUseCase(store, nil, newFakeMetrics())

	res, err := uc.GetSignals(context.Background(), GetSignalsParams{Tier: "enterprise", Limit: 10})
	if err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	if len(res.Signals) != 10 {
		t.Fatalf("enterprise should see all 10, got %d", len(res.Signals))
	}
	if !store.lastSince.IsZero() {
		t.Fatalf("enterprise history window should be unbounded, got %v", store.lastSince)
	}
}

func TestGetSignalsHistoryWindowBounded(t *testing.T) {
	store := &fakeStorage{}
	uc := NewSignalsFeedUseCase(store, nil, newFakeMetrics())

	if _, err := uc.GetSignals(context.Background(), GetSignalsParams{Tier: "free"}); err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	want := time.Now().AddDate(0, 0, -7)
	if store.lastSince.IsZero() || store.lastSince.Before(want.Add(-time.Minute)) || store.lastSince.After(want.Add(time.Minute)) {
		t.Fatalf("free history window should be 7 days, got %v", store.lastSince)
	}
}

func TestGetSignalsUnknownTier(t *testing.T) {
	uc := NewSignalsFeedUseCase(&fakeStorage{}, nil, newFakeMetrics())

	_, err := uc.GetSignals(context.Background(), GetSignalsParams{Tier: "vip"})
	var unknown *entitlement.UnknownTierError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTierError, got %v", err)
	}
	if unknown.Tier != "vip" {
		t.Fatalf("error should carry offending token, got %q", unknown.Tier)
	}
}

func TestGetSignalsUsageFailureIsNotFatal(t *testing.T) {
	store := &fakeStorage{signals: canned(5)}
	m := newFakeMetrics()
	uc := NewSignalsFeedUseCase(store, &fakeUsage{fail: true}, m)

	res, err := uc.GetSignals(context.Background(), GetSignalsParams{Tier: "premium", UserID: "u1", Limit: 5})
	if err != nil {
		t.Fatalf("usage counter outage must not fail the feed: %v", err)
	}
	if len(res.Signals) != 5 {
		t.Fatalf("got %d signals", len(res.Signals))
	}
	if m.errs["usage_counter"] != 1 {
		t.Fatalf("counter outage should be recorded, got %v", m.errs)
	}
}

func TestUpgradeEligibility(t *testing.T) {
	uc := NewSignalsFeedUseCase(&fakeStorage{}, nil, newFakeMetrics())

	ok, err := uc.UpgradeEligibility("free", "pro")
	if err != nil || !ok {
		t.Fatalf("free -> pro should be allowed, got %v %v", ok, err)
	}
	ok, err = uc.UpgradeEligibility("pro", "free")
	if err != nil || ok {
		t.Fatalf("pro -> free is a downgrade, got %v %v", ok, err)
	}
	if _, err := uc.UpgradeEligibility("free", "platinum"); err == nil {
		t.Fatalf("unknown target tier should error")
	}
}

func TestEntitlements(t *testing.T) {
	uc := NewSignalsFeedUseCase(&fakeStorage{}, nil, newFakeMetrics())

	limits, features, err := uc.Entitlements("premium")
	if err != nil {
		t.Fatalf("Entitlements: %v", err)
	}
	if limits.SignalsPerDay != models.Unlimited || limits.HistoricalDataDays != 90 {
		t.Fatalf("unexpected premium limits %+v", limits)
	}
	if !features.Notifications || features.AutoTrading != models.AutoTradingBasic {
		t.Fatalf("unexpected premium features %+v", features)
	}
}
