package models

// FinancialRatios holds the ratio set for one stock code. Pointer fields
// distinguish "not reported" from zero; a fully absent set is a valid state.
type FinancialRatios struct {
	StockCode         string   `json:"stock_code"`
	ProfitMarginPct   *float64 `json:"profit_margin_pct,omitempty"`
	DebtToEquityPct   *float64 `json:"debt_to_equity_pct,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
	EquityToAssetsPct *float64 `json:"equity_to_assets_pct,omitempty"`
	Source            string   `json:"source,omitempty"`
}

// Complete reports whether every ratio needed for scoring is present.
func (r *FinancialRatios) Complete() bool {
	return r != nil &&
		r.ProfitMarginPct != nil &&
		r.DebtToEquityPct != nil &&
		r.CurrentRatio != nil &&
		r.EquityToAssetsPct != nil
}

// InsufficientDataNote flags a sentinel health score produced without a
// complete ratio set.
const InsufficientDataNote = "insufficient data"

// HealthScore is the deterministic [0,1] financial-soundness summary.
type HealthScore struct {
	Value      float64          `json:"value"`
	Components HealthComponents `json:"components"`
	Note       string           `json:"note,omitempty"`
}

// HealthComponents are the clamped per-factor scores behind a HealthScore.
type HealthComponents struct {
	Profitability  float64 `json:"profitability"`
	Leverage       float64 `json:"leverage"`
	Liquidity      float64 `json:"liquidity"`
	Capitalization float64 `json:"capitalization"`
}
