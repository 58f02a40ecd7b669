package models

// Tier is a subscription level. Tiers are totally ordered
// free < premium < pro < enterprise; ordering lives in services/entitlement.
type Tier string

const (
	TierFree       Tier = "free"
	TierPremium    Tier = "premium"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

type AutoTradingLevel string

const (
	AutoTradingNone     AutoTradingLevel = "none"
	AutoTradingBasic    AutoTradingLevel = "basic"
	AutoTradingAdvanced AutoTradingLevel = "advanced"
	AutoTradingCustom   AutoTradingLevel = "custom"
)

// Unlimited marks a limit with no finite bound.
const Unlimited = -1

// TierLimits is the immutable bundle of limits for one tier.
type TierLimits struct {
	SignalsPerDay      int              `json:"signalsPerDay"`
	PortfolioAssetCap  int              `json:"portfolioAssetCap"`
	APICallsPerHour    int              `json:"apiCallsPerHour"`
	HistoricalDataDays int              `json:"historicalDataDays"`
	Notifications      bool             `json:"notifications"`
	AutoTrading        AutoTradingLevel `json:"autoTrading"`
}

// FeatureSet describes the optional features unlocked for a tier.
type FeatureSet struct {
	Notifications bool             `json:"notifications"`
	AutoTrading   AutoTradingLevel `json:"autoTrading"`
}

// GatedSignals is the result of applying a tier's entitlements to an
// ordered signal list.
type GatedSignals struct {
	Tier     Tier              `json:"tier"`
	Signals  []CanonicalSignal `json:"signals"`
	Features FeatureSet        `json:"features"`
}
