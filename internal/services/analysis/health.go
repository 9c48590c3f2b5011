package analysis

import (
	"math"

	"github.com/minwooahn/newslens/internal/models"
)

// Component weights for the health score.
const (
	weightProfitability  = 0.3
	weightLeverage       = 0.3
	weightLiquidity      = 0.2
	weightCapitalization = 0.2
)

// ScoreHealth maps a ratio set onto a [0,1] financial-health score. Pure and
// deterministic: identical inputs always produce identical scores.
//
// An incomplete ratio set yields the sentinel mid-score with an
// insufficient-data note. Averaging over whichever ratios happen to be
// present is deliberately not done: a partial weighted sum reads like a real
// judgment while resting on missing evidence.
func ScoreHealth(ratios *models.FinancialRatios) models.HealthScore {
	if !ratios.Complete() {
		return models.HealthScore{
			Value: 0.5,
			Components: models.HealthComponents{
				Profitability:  0.5,
				Leverage:       0.5,
				Liquidity:      0.5,
				Capitalization: 0.5,
			},
			Note: models.InsufficientDataNote,
		}
	}

	components := models.HealthComponents{
		Profitability:  clampComponent(*ratios.ProfitMarginPct / 15.0),
		Leverage:       clampComponent((100 - *ratios.DebtToEquityPct) / 100.0),
		Liquidity:      clampComponent(*ratios.CurrentRatio / 2.0),
		Capitalization: clampComponent(*ratios.EquityToAssetsPct / 100.0),
	}

	value := clamp01(weightProfitability*components.Profitability +
		weightLeverage*components.Leverage +
		weightLiquidity*components.Liquidity +
		weightCapitalization*components.Capitalization)

	return models.HealthScore{
		Value:      value,
		Components: components,
	}
}

// clampComponent bounds a component score to [0,1], treating non-finite
// inputs (zero-denominator ratios upstream) as worst case.
func clampComponent(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return clamp01(f)
}
