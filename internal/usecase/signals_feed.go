package usecase

import (
	"context"
	"time"

	"TradeCoin/internal/domain/models"
	drepo "TradeCoin/internal/domain/repository"
	"TradeCoin/internal/services/entitlement"
	"TradeCoin/pkg/util"
)

// SignalsFeedUseCase serves the tier-gated signal feed: it pulls the most
// recent canonical signals from storage, bounds the history window by the
// tier's historicalDataDays, and applies the entitlement gate.
type SignalsFeedUseCase struct {
	store   drepo.Storage
	usage   drepo.UsageCounter
	metrics drepo.Metrics
	timeout time.Duration
}

func NewSignalsFeedUseCase(store drepo.Storage, usage drepo.UsageCounter, metrics drepo.Metrics) *SignalsFeedUseCase {
	return &SignalsFeedUseCase{store: store, usage: usage, metrics: metrics, timeout: 10 * time.Second}
}

type GetSignalsParams struct {
	Tier   string
	UserID string
	Symbol string
	Limit  int
}

func (uc *SignalsFeedUseCase) GetSignals(ctx context.Context, p GetSignalsParams) (*models.GatedSignals, error) {
	tier, err := entitlement.ParseTier(p.Tier)
	if err != nil {
		return nil, err
	}
	limits, err := entitlement.Limits(tier)
	if err != nil {
		return nil, err
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// History window bounded by the tier's entitlement; Unlimited means no
	// lower bound.
	since := util.HistorySince(time.Now(), limits.HistoricalDataDays)

	rows, err := uc.store.QueryLatest(ctx, p.Symbol, since, p.Limit)
	if err != nil {
		return nil, err
	}
	signals := make([]models.CanonicalSignal, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			signals = append(signals, *r)
		}
	}

	visible, features, err := entitlement.Apply(tier, signals)
	if err != nil {
		return nil, err
	}

	if uc.usage != nil && p.UserID != "" && len(visible) > 0 {
		// usage accounting is best-effort; a counter outage must not take
		// the feed down
		if _, err := uc.usage.AddSignalsServed(ctx, p.UserID, len(visible)); err != nil {
			uc.metrics.RecordError("usage_counter")
		}
	}
	uc.metrics.RecordServed(string(tier), len(visible))

	return &models.GatedSignals{Tier: tier, Signals: visible, Features: features}, nil
}

// UpgradeEligibility reports whether a subscription can move from one tier to
// another. Purely structural; payment state is out of scope.
func (uc *SignalsFeedUseCase) UpgradeEligibility(from, to string) (bool, error) {
	cur, err := entitlement.ParseTier(from)
	if err != nil {
		return false, err
	}
	cand, err := entitlement.ParseTier(to)
	if err != nil {
		return false, err
	}
	return entitlement.CanUpgradeTo(cur, cand), nil
}

// Entitlements returns the limit bundle and feature flags for a tier.
func (uc *SignalsFeedUseCase) Entitlements(tierToken string) (models.TierLimits, models.FeatureSet, error) {
	tier, err := entitlement.ParseTier(tierToken)
	if err != nil {
		return models.TierLimits{}, models.FeatureSet{}, err
	}
	limits, err := entitlement.Limits(tier)
	if err != nil {
		return models.TierLimits{}, models.FeatureSet{}, err
	}
	features, err := entitlement.Features(tier)
	if err != nil {
		return models.TierLimits{}, models.FeatureSet{}, err
	}
	return limits, features, nil
}
