package entitlement

import (
	"fmt"
	"strings"

	"TradeCoin/internal/domain/models"
)

// tierOrder fixes the total upgrade ordering free < premium < pro < enterprise.
var tierOrder = []models.Tier{
	models.TierFree,
	models.TierPremium,
	models.TierPro,
	models.TierEnterprise,
}

// UnknownTierError reports an entitlement lookup for a tier not present in
// the policy table. Silent defaulting to free is deliberately not done: it
// would mask configuration bugs.
type UnknownTierError struct {
	Tier string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown subscription tier %q", e.Tier)
}

// ParseTier validates a tier token from an untrusted source.
func ParseTier(s string) (models.Tier, error) {
	t := models.Tier(strings.ToLower(strings.TrimSpace(s)))
	if rankOf(t) < 0 {
		return "", &UnknownTierError{Tier: s}
	}
	return t, nil
}

// Tiers returns all tiers in upgrade order.
func Tiers() []models.Tier {
	out := make([]models.Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// CanUpgradeTo reports whether candidate is strictly later than current in
// the tier ordering. This is a structural eligibility check only; it never
// consults payment state. Unknown tiers are never eligible either way.
func CanUpgradeTo(current, candidate models.Tier) bool {
	cur, cand := rankOf(current), rankOf(candidate)
	if cur < 0 || cand < 0 {
		return false
	}
	return cand > cur
}

func rankOf(t models.Tier) int {
	for i, known := range tierOrder {
		if known == t {
			return i
		}
	}
	return -1
}
