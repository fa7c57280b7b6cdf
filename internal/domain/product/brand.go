package product

import "strings"

// PrestigeTier is the categorical brand-prestige feature derived from the
// brand's historical average price
type PrestigeTier string

const (
	PrestigeBudget       PrestigeTier = "budget"
	PrestigeMidRange     PrestigeTier = "mid_range"
	PrestigePremium      PrestigeTier = "premium"
	PrestigeUltraPremium PrestigeTier = "ultra_premium"
)

// String returns string representation
func (p PrestigeTier) String() string {
	return string(p)
}

// PrestigeTable maps a lowercased brand name to its historical average
// observed price. Computed at training time from the reference dataset and
// frozen into the deployed artifact. Read-only at inference time.
type PrestigeTable map[string]float64

// AvgPrice looks up the brand's historical average price, 0 if unknown
func (t PrestigeTable) AvgPrice(brand string) float64 {
	return t[strings.ToLower(brand)]
}

// TierFor derives the prestige tier for an average price using the fixed
// thresholds shared with training
func TierFor(avgPrice float64) PrestigeTier {
	switch {
	case avgPrice >= PrestigeUltraPremiumThreshold:
		return PrestigeUltraPremium
	case avgPrice >= PrestigePremiumThreshold:
		return PrestigePremium
	case avgPrice >= PrestigeMidRangeThreshold:
		return PrestigeMidRange
	default:
		return PrestigeBudget
	}
}
