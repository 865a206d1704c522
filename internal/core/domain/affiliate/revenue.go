package affiliate

// RevenueSummary aggregates the click events of a period.
type RevenueSummary struct {
	TotalClicks           int     `json:"total_clicks"`
	Conversions           int     `json:"conversions"`
	ConversionRate        float64 `json:"conversion_rate"`
	TotalCommission       float64 `json:"total_commission"`
	AvgCommissionPerClick float64 `json:"avg_commission_per_click"`
}

// SummarizeClicks computes revenue figures with a full scan of the given
// events. Zero clicks yield zero rates rather than NaN.
func SummarizeClicks(clicks []*ClickEvent) RevenueSummary {
	s := RevenueSummary{TotalClicks: len(clicks)}
	for _, c := range clicks {
		if c.Converted {
			s.Conversions++
		}
		if c.CommissionEarned != nil {
			s.TotalCommission += *c.CommissionEarned
		}
	}
	if s.TotalClicks > 0 {
		s.ConversionRate = float64(s.Conversions) / float64(s.TotalClicks)
		s.AvgCommissionPerClick = s.TotalCommission / float64(s.TotalClicks)
	}
	return s
}

// RevenueForecast extrapolates from historical clicks to a projected click
// volume. Confidence grows with sample size and caps at 0.85.
type RevenueForecast struct {
	EstimatedRevenue float64 `json:"estimated_revenue"`
	Confidence       float64 `json:"confidence"`
	RangeMin         float64 `json:"range_min"`
	RangeMax         float64 `json:"range_max"`
}

func PredictRevenue(historical []*ClickEvent, projectedClicks int) RevenueForecast {
	summary := SummarizeClicks(historical)

	estimated := float64(projectedClicks) * summary.AvgCommissionPerClick
	confidence := 0.85
	if len(historical) < 100 {
		confidence = float64(len(historical)) / 100
		if confidence > 0.7 {
			confidence = 0.7
		}
	}

	variance := 0.4
	if confidence > 0.7 {
		variance = 0.2
	}
	return RevenueForecast{
		EstimatedRevenue: estimated,
		Confidence:       confidence,
		RangeMin:         estimated * (1 - variance),
		RangeMax:         estimated * (1 + variance),
	}
}
