package entitlement

import "TradeCoin/internal/domain/models"

// policy is the process-wide entitlement table, keyed by tier. It is
// initialized once and never mutated, so reads need no locking. Every limit
// is non-decreasing with tier rank; TestPolicyMonotonicity guards that.
var policy = map[models.Tier]models.TierLimits{
	models.TierFree: {
		SignalsPerDay:      3,
		PortfolioAssetCap:  3,
		APICallsPerHour:    10,
		HistoricalDataDays: 7,
		Notifications:      false,
		AutoTrading:        models.AutoTradingNone,
	},
	models.TierPremium: {
		SignalsPerDay:      models.Unlimited,
		PortfolioAssetCap:  10,
		APICallsPerHour:    100,
		HistoricalDataDays: 90,
		Notifications:      true,
		AutoTrading:        models.AutoTradingBasic,
	},
	models.TierPro: {
		SignalsPerDay:      models.Unlimited,
		PortfolioAssetCap:  50,
		APICallsPerHour:    1000,
		HistoricalDataDays: 365,
		Notifications:      true,
		AutoTrading:        models.AutoTradingAdvanced,
	},
	models.TierEnterprise: {
		SignalsPerDay:      models.Unlimited,
		PortfolioAssetCap:  models.Unlimited,
		APICallsPerHour:    models.Unlimited,
		HistoricalDataDays: models.Unlimited,
		Notifications:      true,
		AutoTrading:        models.AutoTradingCustom,
	},
}

// Limits returns the limit bundle for a tier, or UnknownTierError for a tier
// outside the table.
func Limits(tier models.Tier) (models.TierLimits, error) {
	limits, ok := policy[tier]
	if !ok {
		return models.TierLimits{}, &UnknownTierError{Tier: string(tier)}
	}
	return limits, nil
}

// Features reads the optional-feature flags for a tier off the policy table.
func Features(tier models.Tier) (models.FeatureSet, error) {
	limits, err := Limits(tier)
	if err != nil {
		return models.FeatureSet{}, err
	}
	return models.FeatureSet{
		Notifications: limits.Notifications,
		AutoTrading:   limits.AutoTrading,
	}, nil
}
