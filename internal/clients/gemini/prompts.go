package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

// analysisSchema is the response shape requested from the model. The
// canonicalizer tolerates drift from it, but asking precisely cuts the
// retry rate.
const analysisSchema = `{
  "summary": "one-paragraph market overview",
  "industries": [
    {
      "industry_name": "...",
      "impact_level": "high|medium|low",
      "trend_direction": "positive|negative|neutral",
      "impact_detail": {
        "market_summary": {"sentiment": "...", "key_themes": ["..."]},
        "buy_candidates": [
          {
            "industry": "...",
            "reason_industry": "...",
            "stocks": [
              {"stock_code": "6-digit code or empty", "stock_name": "...", "expected_trend": "up|down|neutral", "confidence_score": 0.0, "reasoning": "..."}
            ]
          }
        ],
        "hold_candidates": [],
        "sell_candidates": []
      }
    }
  ]
}`

// buildAnalysisPrompt assembles the generation prompt from the news digest,
// the optional base draft for refinement, and the exclusion lists.
func buildAnalysisPrompt(pc interfaces.PromptContext) string {
	var b strings.Builder

	if pc.Refine {
		b.WriteString("You are refining a stock market analysis. Given the news below and an existing analysis, ")
		b.WriteString("propose ripple-effect opportunities the existing analysis missed: supplier, customer, and ")
		b.WriteString("competitor industries affected indirectly. Do not repeat industries already covered.\n\n")
	} else {
		b.WriteString("You are a stock market analyst. Analyze the news below and identify the industries it affects ")
		b.WriteString("and the listed companies most exposed, grouped into buy, hold, and sell candidates.\n\n")
	}

	b.WriteString("News:\n")
	b.WriteString(pc.NewsDigest)
	b.WriteString("\n\n")

	if pc.Refine && pc.BaseDraft != nil {
		b.WriteString("Existing analysis:\n")
		b.WriteString(draftJSON(pc.BaseDraft))
		b.WriteString("\n\n")
	}

	if len(pc.ExcludedStocks) > 0 {
		fmt.Fprintf(&b, "Do not include these stock codes, they were rejected in earlier rounds: %s\n",
			strings.Join(pc.ExcludedStocks, ", "))
	}
	if len(pc.ExcludedIndustries) > 0 {
		fmt.Fprintf(&b, "Do not include these industries, they were rejected in earlier rounds: %s\n",
			strings.Join(pc.ExcludedIndustries, ", "))
	}
	if len(pc.ExcludedStocks) > 0 || len(pc.ExcludedIndustries) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("- stock_code is the 6-digit KRX listing code, or empty if unknown. Never guess a code.\n")
	b.WriteString("- confidence_score is a number between 0 and 1.\n")
	b.WriteString("- Every stock needs reasoning grounded in the news above.\n\n")

	b.WriteString("Respond with a single JSON object matching this schema and nothing else:\n")
	b.WriteString(analysisSchema)

	return b.String()
}

// buildJudgePrompt assembles the validation prompt from the canonical draft,
// its source news, and the financial data retrieved for its candidates.
func buildJudgePrompt(in interfaces.JudgeInput) string {
	var b strings.Builder

	b.WriteString("You are reviewing a stock market analysis for publication. Judge two things:\n")
	b.WriteString("1. is_relevant: does every industry in the analysis trace back to the news provided?\n")
	b.WriteString("2. is_sound: are the stock picks defensible given the financial data provided?\n\n")

	b.WriteString("News:\n")
	b.WriteString(in.NewsDigest)
	b.WriteString("\n\nAnalysis under review:\n")
	b.WriteString(draftJSON(in.Draft))
	b.WriteString("\n\n")

	if len(in.Financials) > 0 {
		b.WriteString("Financial data:\n")
		for _, ratios := range in.Financials {
			b.WriteString(ratiosLine(ratios))
			b.WriteString("\n")
		}
		b.WriteString("Missing financial data is not grounds for rejection on its own.\n\n")
	}

	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"is_relevant": true, "is_sound": true, "rationale": "...", "rejected_stocks": ["codes to drop"], "rejected_industries": ["names to drop"]}`)

	return b.String()
}

func draftJSON(draft *models.AnalysisDraft) string {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func ratiosLine(r *models.FinancialRatios) string {
	parts := []string{r.StockCode}
	if r.ProfitMarginPct != nil {
		parts = append(parts, fmt.Sprintf("profit margin %.1f%%", *r.ProfitMarginPct))
	}
	if r.DebtToEquityPct != nil {
		parts = append(parts, fmt.Sprintf("debt/equity %.1f%%", *r.DebtToEquityPct))
	}
	if r.CurrentRatio != nil {
		parts = append(parts, fmt.Sprintf("current ratio %.2f", *r.CurrentRatio))
	}
	if r.EquityToAssetsPct != nil {
		parts = append(parts, fmt.Sprintf("equity/assets %.1f%%", *r.EquityToAssetsPct))
	}
	return "- " + strings.Join(parts, ", ")
}
