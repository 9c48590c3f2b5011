package models

// Impact levels for an industry.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Trend directions for an industry.
const (
	TrendPositive = "positive"
	TrendNegative = "negative"
	TrendNeutral  = "neutral"
)

// Expected trends for a stock candidate.
const (
	ExpectedUp      = "up"
	ExpectedDown    = "down"
	ExpectedNeutral = "neutral"
)

// ValidImpactLevel reports whether level is one of high/medium/low.
func ValidImpactLevel(level string) bool {
	return level == ImpactHigh || level == ImpactMedium || level == ImpactLow
}

// ValidTrendDirection reports whether dir is one of positive/negative/neutral.
func ValidTrendDirection(dir string) bool {
	return dir == TrendPositive || dir == TrendNegative || dir == TrendNeutral
}

// ValidExpectedTrend reports whether trend is one of up/down/neutral.
func ValidExpectedTrend(trend string) bool {
	return trend == ExpectedUp || trend == ExpectedDown || trend == ExpectedNeutral
}

// AnalysisDraft is one generation attempt, reconciled into the canonical
// schema. Never mutated in place; each attempt yields a fresh value.
type AnalysisDraft struct {
	Summary    string          `json:"summary"`
	Industries []IndustryDraft `json:"industries"`
}

// IndustryDraft is one impacted industry with its stock candidates.
type IndustryDraft struct {
	IndustryName   string           `json:"industry_name"`
	ImpactLevel    string           `json:"impact_level"`
	TrendDirection string           `json:"trend_direction"`
	ImpactDetail   ImpactDetail     `json:"impact_detail"`
	Stocks         []StockCandidate `json:"stocks"`
}

// ImpactDetail carries the structured payload behind an industry call.
// When the generator emits an unparsable string the text is kept opaque.
type ImpactDetail struct {
	MarketSummary  MarketSummary    `json:"market_summary"`
	BuyCandidates  []CandidateGroup `json:"buy_candidates,omitempty"`
	HoldCandidates []CandidateGroup `json:"hold_candidates,omitempty"`
	SellCandidates []CandidateGroup `json:"sell_candidates,omitempty"`
	Text           string           `json:"text,omitempty"`
}

// MarketSummary is the generator's overall market read.
type MarketSummary struct {
	Sentiment string   `json:"sentiment"`
	KeyThemes []string `json:"key_themes"`
}

// CandidateGroup is one industry grouping inside a buy/hold/sell bucket.
type CandidateGroup struct {
	Industry       string           `json:"industry"`
	ReasonIndustry string           `json:"reason_industry"`
	Stocks         []StockCandidate `json:"stocks"`
}

// StockCandidate is one recommended equity.
type StockCandidate struct {
	StockCode       string       `json:"stock_code"`
	StockName       string       `json:"stock_name"`
	ExpectedTrend   string       `json:"expected_trend"`
	ConfidenceScore float64      `json:"confidence_score"`
	Reasoning       string       `json:"reasoning"`
	Health          *HealthScore `json:"health,omitempty"`
}

// StockKey is the identity key used for candidate deduplication.
type StockKey struct {
	Code  string
	Name  string
	Trend string
}

// Key returns the candidate's deduplication identity.
func (s *StockCandidate) Key() StockKey {
	return StockKey{Code: s.StockCode, Name: s.StockName, Trend: s.ExpectedTrend}
}

// ValidationVerdict is the outcome of one validation attempt. Discarded once
// the pipeline decides retry or accept.
type ValidationVerdict struct {
	IndustryValid bool   `json:"industry_valid"`
	StocksValid   bool   `json:"stocks_valid"`
	Rationale     string `json:"rationale"`

	// Identifiers the judge flagged, threaded back into the next
	// generation attempt as exclusions.
	RejectedStocks     []string `json:"rejected_stocks,omitempty"`
	RejectedIndustries []string `json:"rejected_industries,omitempty"`
}

// Accepted reports whether both judgments passed.
func (v ValidationVerdict) Accepted() bool {
	return v.IndustryValid && v.StocksValid
}

// JudgeResult is the parsed payload of a judgment oracle response.
type JudgeResult struct {
	IsRelevant         bool     `json:"is_relevant"`
	IsSound            bool     `json:"is_sound"`
	Rationale          string   `json:"rationale"`
	RejectedStocks     []string `json:"rejected_stocks"`
	RejectedIndustries []string `json:"rejected_industries"`
}
