package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minwooahn/newslens/internal/models"
)

func ratioSet(margin, debtToEquity, current, equityToAssets float64) *models.FinancialRatios {
	return &models.FinancialRatios{
		StockCode:         "005930",
		ProfitMarginPct:   &margin,
		DebtToEquityPct:   &debtToEquity,
		CurrentRatio:      &current,
		EquityToAssetsPct: &equityToAssets,
	}
}

func TestScoreHealthPerfect(t *testing.T) {
	// Each component saturates at its cap.
	score := ScoreHealth(ratioSet(15, 0, 2, 100))
	assert.Equal(t, 1.0, score.Value)
	assert.Equal(t, 1.0, score.Components.Profitability)
	assert.Equal(t, 1.0, score.Components.Leverage)
	assert.Equal(t, 1.0, score.Components.Liquidity)
	assert.Equal(t, 1.0, score.Components.Capitalization)
	assert.Empty(t, score.Note)
}

func TestScoreHealthWeightedSum(t *testing.T) {
	// Half-cap inputs give half-scores everywhere.
	score := ScoreHealth(ratioSet(7.5, 50, 1, 50))
	assert.InDelta(t, 0.5, score.Value, 1e-9)
	assert.InDelta(t, 0.5, score.Components.Profitability, 1e-9)
	assert.InDelta(t, 0.5, score.Components.Leverage, 1e-9)
	assert.InDelta(t, 0.5, score.Components.Liquidity, 1e-9)
	assert.InDelta(t, 0.5, score.Components.Capitalization, 1e-9)
}

func TestScoreHealthStrongBalanceSheet(t *testing.T) {
	score := ScoreHealth(ratioSet(20, 10, 2.5, 80))
	assert.Equal(t, 1.0, score.Components.Profitability)
	assert.InDelta(t, 0.9, score.Components.Leverage, 1e-9)
	assert.Equal(t, 1.0, score.Components.Liquidity)
	assert.InDelta(t, 0.8, score.Components.Capitalization, 1e-9)
	assert.InDelta(t, 0.93, score.Value, 1e-9)
}

func TestScoreHealthClampsNegatives(t *testing.T) {
	// Deep losses and heavy leverage floor at zero, not below.
	score := ScoreHealth(ratioSet(-30, 400, 0.1, 5))
	assert.Equal(t, 0.0, score.Components.Profitability)
	assert.Equal(t, 0.0, score.Components.Leverage)
	assert.InDelta(t, 0.05, score.Components.Liquidity, 1e-9)
	assert.InDelta(t, 0.05, score.Components.Capitalization, 1e-9)
	assert.True(t, score.Value >= 0 && score.Value <= 1)
}

func TestScoreHealthIncompleteRatios(t *testing.T) {
	margin := 10.0

	for name, ratios := range map[string]*models.FinancialRatios{
		"nil set":     nil,
		"empty set":   {StockCode: "005930"},
		"partial set": {StockCode: "005930", ProfitMarginPct: &margin},
	} {
		t.Run(name, func(t *testing.T) {
			score := ScoreHealth(ratios)
			assert.Equal(t, 0.5, score.Value)
			assert.Equal(t, models.InsufficientDataNote, score.Note)
			assert.Equal(t, 0.5, score.Components.Profitability)
			assert.Equal(t, 0.5, score.Components.Leverage)
		})
	}
}

func TestScoreHealthNonFiniteInputs(t *testing.T) {
	// Ratios derived from zero denominators arrive as Inf or NaN and must
	// score as worst case, never propagate.
	score := ScoreHealth(ratioSet(math.Inf(1), math.NaN(), 2, 100))
	assert.Equal(t, 0.0, score.Components.Profitability)
	assert.Equal(t, 0.0, score.Components.Leverage)
	assert.False(t, math.IsNaN(score.Value))
	assert.InDelta(t, 0.4, score.Value, 1e-9)
}

func TestScoreHealthDeterministic(t *testing.T) {
	a := ScoreHealth(ratioSet(8, 120, 1.4, 45))
	b := ScoreHealth(ratioSet(8, 120, 1.4, 45))
	assert.Equal(t, a, b)
}
