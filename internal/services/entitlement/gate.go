package entitlement

import "TradeCoin/internal/domain/models"

// Apply returns the subsequence of signals visible to the tier plus the
// tier's feature flags. Bounded tiers get the first N elements of the input
// in the caller's order; the gate never reorders and never samples. Callers
// are expected to pre-sort most-urgent first upstream.
func Apply(tier models.Tier, signals []models.CanonicalSignal) ([]models.CanonicalSignal, models.FeatureSet, error) {
	limits, err := Limits(tier)
	if err != nil {
		return nil, models.FeatureSet{}, err
	}

	features := models.FeatureSet{
		Notifications: limits.Notifications,
		AutoTrading:   limits.AutoTrading,
	}

	if limits.SignalsPerDay == models.Unlimited || len(signals) <= limits.SignalsPerDay {
		return signals, features, nil
	}
	return signals[:limits.SignalsPerDay], features, nil
}
