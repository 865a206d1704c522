package affiliate

// CommissionTier is a price bracket with its own rate. Max <= 0 means the
// bracket is open-ended.
type CommissionTier struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Rate float64 `json:"rate"`
}

// TieredCommission applies the first tier, in declaration order, whose range
// contains the sale value. No containing tier earns nothing.
func TieredCommission(saleValue float64, tiers []CommissionTier) float64 {
	for _, tier := range tiers {
		if saleValue >= tier.Min && (tier.Max <= 0 || saleValue <= tier.Max) {
			return saleValue * tier.Rate
		}
	}
	return 0
}

// BonusTier grants a commission multiplier once quarterly volume reaches the
// threshold.
type BonusTier struct {
	Threshold  float64 `json:"threshold"`
	Multiplier float64 `json:"multiplier"`
}

// QuarterlyBonus scans thresholds from highest to lowest and applies
// base * (multiplier - 1) for the first threshold met.
func QuarterlyBonus(quarterlyVolume, baseCommission float64, tiers []BonusTier) float64 {
	for i := len(tiers) - 1; i >= 0; i-- {
		if quarterlyVolume >= tiers[i].Threshold {
			return baseCommission * (tiers[i].Multiplier - 1)
		}
	}
	return 0
}
