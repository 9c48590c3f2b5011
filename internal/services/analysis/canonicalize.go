// Package analysis implements the news-to-report analysis pipeline: draft
// generation, canonicalization, validation, health scoring, and the bounded
// retry state machine that sequences them.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/minwooahn/newslens/internal/models"
)

// bucketDefaults pairs each candidate bucket with its implicit trend. Walk
// order is fixed so flattening is deterministic.
var bucketDefaults = []struct {
	name  string
	trend string
}{
	{"buy_candidates", models.ExpectedUp},
	{"hold_candidates", models.ExpectedNeutral},
	{"sell_candidates", models.ExpectedDown},
}

// Canonicalize coerces whatever shape the generator returned into the
// canonical draft schema. It is total: any input yields a well-formed draft,
// absent fields yield defaults, and re-canonicalizing a canonical draft is a
// no-op. This is the single point that absorbs generator schema drift.
func Canonicalize(raw any) *models.AnalysisDraft {
	draft := &models.AnalysisDraft{
		Summary:    "",
		Industries: []models.IndustryDraft{},
	}

	m, ok := asMap(raw)
	if !ok {
		return draft
	}

	draft.Summary = asString(m["summary"])

	for _, entry := range asList(m["industries"]) {
		im, ok := asMap(entry)
		if !ok {
			continue
		}
		draft.Industries = append(draft.Industries, canonicalizeIndustry(im))
	}

	return draft
}

func canonicalizeIndustry(im map[string]any) models.IndustryDraft {
	industry := models.IndustryDraft{
		IndustryName:   asString(im["industry_name"]),
		ImpactLevel:    normalizeImpactLevel(asString(im["impact_level"])),
		TrendDirection: normalizeTrendDirection(asString(im["trend_direction"])),
	}

	detail, groups := canonicalizeDetail(detailValue(im))
	industry.ImpactDetail = detail

	// Flatten the three buckets in fixed order; first occurrence of an
	// identity key wins, which pins down ordering drift in the generator.
	flattened := []models.StockCandidate{}
	seen := map[models.StockKey]bool{}
	for i, bucket := range bucketDefaults {
		for _, group := range groups[i] {
			for _, stock := range group.Stocks {
				key := stock.Key()
				if seen[key] {
					continue
				}
				seen[key] = true
				flattened = append(flattened, stock)
			}
		}
		switch bucket.name {
		case "buy_candidates":
			industry.ImpactDetail.BuyCandidates = groups[i]
		case "hold_candidates":
			industry.ImpactDetail.HoldCandidates = groups[i]
		case "sell_candidates":
			industry.ImpactDetail.SellCandidates = groups[i]
		}
	}

	// A non-empty top-level stock list is assumed already reconciled and
	// replaces the flattened buckets, but still passes through code
	// filtering, trend/confidence normalization, and deduplication.
	existing := []models.StockCandidate{}
	existingSeen := map[models.StockKey]bool{}
	for _, entry := range asList(im["stocks"]) {
		sm, ok := asMap(entry)
		if !ok {
			continue
		}
		stock, ok := parseStock(sm, models.ExpectedNeutral, "")
		if !ok {
			continue
		}
		if existingSeen[stock.Key()] {
			continue
		}
		existingSeen[stock.Key()] = true
		existing = append(existing, stock)
	}

	if len(existing) > 0 {
		industry.Stocks = existing
	} else {
		industry.Stocks = flattened
	}

	return industry
}

// detailValue returns the industry's detail payload, accepting both the
// canonical key and the generator's historical key.
func detailValue(im map[string]any) any {
	if v, ok := im["impact_detail"]; ok && v != nil {
		return v
	}
	return im["impact_description"]
}

// canonicalizeDetail normalizes the impact detail payload and returns the
// parsed candidate groups in bucket walk order.
func canonicalizeDetail(raw any) (models.ImpactDetail, [3][]models.CandidateGroup) {
	detail := models.ImpactDetail{
		MarketSummary: models.MarketSummary{Sentiment: "", KeyThemes: []string{}},
	}
	var groups [3][]models.CandidateGroup

	dm, ok := asMap(raw)
	if !ok {
		// A string payload may be structured data in disguise; an
		// unparsable one stays opaque text.
		if s, isStr := raw.(string); isStr && s != "" {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				if pm, isMap := asMap(parsed); isMap {
					return canonicalizeDetail(pm)
				}
			}
			detail.Text = s
		}
		return detail, groups
	}

	if ms, ok := asMap(dm["market_summary"]); ok {
		sentiment := asString(ms["sentiment"])
		if sentiment == "" {
			sentiment = asString(ms["market_sentiment"])
		}
		detail.MarketSummary.Sentiment = sentiment
		for _, theme := range asList(ms["key_themes"]) {
			if s := asString(theme); s != "" {
				detail.MarketSummary.KeyThemes = append(detail.MarketSummary.KeyThemes, s)
			}
		}
	}
	detail.Text = asString(dm["text"])

	for i, bucket := range bucketDefaults {
		for _, groupRaw := range asList(dm[bucket.name]) {
			gm, ok := asMap(groupRaw)
			if !ok {
				continue
			}
			group := models.CandidateGroup{
				Industry:       asString(gm["industry"]),
				ReasonIndustry: asString(gm["reason_industry"]),
				Stocks:         []models.StockCandidate{},
			}
			for _, stockRaw := range asList(gm["stocks"]) {
				sm, ok := asMap(stockRaw)
				if !ok {
					continue
				}
				stock, ok := parseStock(sm, bucket.trend, bucket.name)
				if !ok {
					continue
				}
				group.Stocks = append(group.Stocks, stock)
			}
			groups[i] = append(groups[i], group)
		}
	}

	return detail, groups
}

// parseStock builds a candidate from an untrusted mapping. It returns false
// when the entry must be dropped (non-conforming stock code). bucketLabel,
// when set, is prefixed to unlabeled reasoning text.
func parseStock(sm map[string]any, defaultTrend, bucketLabel string) (models.StockCandidate, bool) {
	code := asString(sm["stock_code"])
	if code == "" {
		code = asString(sm["code"])
	}
	if !validStockCode(code) {
		return models.StockCandidate{}, false
	}

	name := asString(sm["stock_name"])
	if name == "" {
		name = asString(sm["name"])
	}

	trend := asString(sm["expected_trend"])
	if !models.ValidExpectedTrend(trend) {
		trend = defaultTrend
	}

	reasoning := asString(sm["reasoning"])
	if bucketLabel != "" {
		switch {
		case reasoning == "":
			reasoning = fmt.Sprintf("[%s]", bucketLabel)
		case reasoning[0] != '[':
			reasoning = fmt.Sprintf("[%s] %s", bucketLabel, reasoning)
		}
	}

	return models.StockCandidate{
		StockCode:       code,
		StockName:       name,
		ExpectedTrend:   trend,
		ConfidenceScore: coerceConfidence(sm["confidence_score"]),
		Reasoning:       reasoning,
	}, true
}

// validStockCode accepts an empty code or exactly six digits.
func validStockCode(code string) bool {
	if code == "" {
		return true
	}
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// coerceConfidence produces a finite confidence in [0,1]. Unparsable or
// non-finite values default to 0.5.
func coerceConfidence(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0.5
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0.5
		}
		f = parsed
	default:
		return 0.5
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.5
	}
	return clamp01(f)
}

func normalizeImpactLevel(level string) string {
	if models.ValidImpactLevel(level) {
		return level
	}
	return models.ImpactMedium
}

// normalizeTrendDirection maps stock-style trends onto industry directions
// and defaults everything else to neutral.
func normalizeTrendDirection(dir string) string {
	switch dir {
	case models.ExpectedUp:
		return models.TrendPositive
	case models.ExpectedDown:
		return models.TrendNegative
	}
	if models.ValidTrendDirection(dir) {
		return dir
	}
	return models.TrendNeutral
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
