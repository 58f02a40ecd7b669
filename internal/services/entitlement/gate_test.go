package entitlement

import (
	"errors"
	"fmt"
	"testing"

	"TradeCoin/internal/domain/models"
)

func sampleSignals(n int) []models.CanonicalSignal {
	out := make([]models.CanonicalSignal, n)
	for i := range out {
		out[i] = models.CanonicalSignal{
			ID:                fmt.Sprintf("BTC-%d", i),
			CoinSymbol:        "BTC",
			RecommendedAction: models.ActionBuy,
			ConfidenceScore:   90 - i,
		}
	}
	return out
}

func TestApplyFreeTierTruncatesToPrefix(t *testing.T) {
	in := sampleSignals(10)
	visible, features, err := Apply(models.TierFree, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 3 {
		t.Fatalf("got %d signals, want 3", len(visible))
	}
	for i := range visible {
		if visible[i].ID != in[i].ID {
			t.Fatalf("result is not a prefix: pos %d got %s want %s", i, visible[i].ID, in[i].ID)
		}
	}
	if features.Notifications {
		t.Fatalf("free tier must not have notifications")
	}
	if features.AutoTrading != models.AutoTradingNone {
		t.Fatalf("free auto trading = %q, want none", features.AutoTrading)
	}
}

func TestApplyEnterpriseTierUnbounded(t *testing.T) {
	in := sampleSignals(10)
	visible, features, err := Apply(models.TierEnterprise, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 10 {
		t.Fatalf("got %d signals, want all 10", len(visible))
	}
	for i := range visible {
		if visible[i].ID != in[i].ID {
			t.Fatalf("order changed at pos %d", i)
		}
	}
	if !features.Notifications || features.AutoTrading != models.AutoTradingCustom {
		t.Fatalf("enterprise features = %+v", features)
	}
}

func TestApplyShortInputNoPadding(t *testing.T) {
	in := sampleSignals(2)
	visible, _, err := Apply(models.TierFree, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("got %d signals, want 2", len(visible))
	}
}

func TestApplyPrefixLengthProperty(t *testing.T) {
	// len(visible) == min(N, L) for every tier and input length.
	for _, tier := range Tiers() {
		limits, err := Limits(tier)
		if err != nil {
			t.Fatalf("limits %s: %v", tier, err)
		}
		for _, l := range []int{0, 1, 3, 4, 25} {
			visible, _, err := Apply(tier, sampleSignals(l))
			if err != nil {
				t.Fatalf("apply %s/%d: %v", tier, l, err)
			}
			want := l
			if limits.SignalsPerDay != models.Unlimited && limits.SignalsPerDay < l {
				want = limits.SignalsPerDay
			}
			if len(visible) != want {
				t.Fatalf("tier %s, input %d: got %d, want %d", tier, l, len(visible), want)
			}
		}
	}
}

func TestApplyUnknownTierFails(t *testing.T) {
	_, _, err := Apply(models.Tier("platinum"), sampleSignals(1))
	var unknown *UnknownTierError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTierError, got %v", err)
	}
	if unknown.Tier != "platinum" {
		t.Fatalf("tier = %q, want platinum", unknown.Tier)
	}
}

func TestCanUpgradeTo(t *testing.T) {
	tiers := Tiers()
	for i, from := range tiers {
		for j, to := range tiers {
			want := j > i
			if got := CanUpgradeTo(from, to); got != want {
				t.Fatalf("CanUpgradeTo(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
	if CanUpgradeTo(models.TierFree, models.Tier("platinum")) {
		t.Fatalf("unknown candidate must not be upgradeable")
	}
	if CanUpgradeTo(models.Tier("platinum"), models.TierEnterprise) {
		t.Fatalf("unknown current must not be upgradeable")
	}
}

func TestParseTier(t *testing.T) {
	got, err := ParseTier(" Premium ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.TierPremium {
		t.Fatalf("got %q", got)
	}
	if _, err := ParseTier("gold"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}
