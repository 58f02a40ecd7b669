package entitlement

import (
	"testing"

	"TradeCoin/internal/domain/models"
)

// asBound treats Unlimited as larger than any finite limit for ordering checks.
func asBound(v int) int {
	if v == models.Unlimited {
		return int(^uint(0) >> 1)
	}
	return v
}

func TestPolicyCoversEveryTier(t *testing.T) {
	for _, tier := range Tiers() {
		if _, err := Limits(tier); err != nil {
			t.Fatalf("no policy entry for %s: %v", tier, err)
		}
	}
}

func TestPolicyMonotonicity(t *testing.T) {
	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		prev, _ := Limits(tiers[i-1])
		cur, _ := Limits(tiers[i])

		checks := []struct {
			name       string
			prevV, curV int
		}{
			{"signalsPerDay", prev.SignalsPerDay, cur.SignalsPerDay},
			{"portfolioAssetCap", prev.PortfolioAssetCap, cur.PortfolioAssetCap},
			{"apiCallsPerHour", prev.APICallsPerHour, cur.APICallsPerHour},
			{"historicalDataDays", prev.HistoricalDataDays, cur.HistoricalDataDays},
		}
		for _, c := range checks {
			if asBound(c.curV) < asBound(c.prevV) {
				t.Fatalf("%s decreases from %s (%d) to %s (%d)",
					c.name, tiers[i-1], c.prevV, tiers[i], c.curV)
			}
		}
		if prev.Notifications && !cur.Notifications {
			t.Fatalf("notifications regress from %s to %s", tiers[i-1], tiers[i])
		}
	}
}

func TestPolicyEnterpriseUnbounded(t *testing.T) {
	limits, err := Limits(models.TierEnterprise)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, v := range map[string]int{
		"signalsPerDay":      limits.SignalsPerDay,
		"portfolioAssetCap":  limits.PortfolioAssetCap,
		"apiCallsPerHour":    limits.APICallsPerHour,
		"historicalDataDays": limits.HistoricalDataDays,
	} {
		if v != models.Unlimited {
			t.Fatalf("enterprise %s = %d, want unlimited", name, v)
		}
	}
}

func TestFeaturesReadOffPolicy(t *testing.T) {
	features, err := Features(models.TierPro)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !features.Notifications || features.AutoTrading != models.AutoTradingAdvanced {
		t.Fatalf("pro features = %+v", features)
	}
	if _, err := Features(models.Tier("silver")); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}
