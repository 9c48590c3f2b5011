// Package interfaces defines service contracts for Newslens
package interfaces

import (
	"context"

	"github.com/minwooahn/newslens/internal/models"
)

// OutcomeKind classifies every oracle interaction into the three failure
// modes the pipeline is allowed to observe. Raw transport errors never
// escape the gateway.
type OutcomeKind int

const (
	// OutcomeSuccess means a payload was produced and parsed.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeMalformed means the oracle answered but no usable payload
	// could be extracted.
	OutcomeMalformed
	// OutcomeUnavailable means the oracle could not be reached, was not
	// configured, or the call failed outright.
	OutcomeUnavailable
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// PromptContext is the input to one generation attempt.
type PromptContext struct {
	NewsDigest string // condensed source news text
	Refine     bool   // secondary refinement pass over an accepted draft
	BaseDraft  *models.AnalysisDraft

	// Identifiers rejected in earlier attempts; the oracle is steered
	// away from repeating them.
	ExcludedStocks     []string
	ExcludedIndustries []string
}

// GenerateOutcome is the result of one generation call. Payload is the
// decoded, untrusted JSON value; it is never assumed to match the canonical
// draft schema.
type GenerateOutcome struct {
	Kind    OutcomeKind
	Payload any
	Raw     string
}

// JudgeInput is the context given to the judgment oracle.
type JudgeInput struct {
	Draft      *models.AnalysisDraft
	NewsDigest string
	Financials []*models.FinancialRatios
}

// JudgeOutcome is the result of one judgment call.
type JudgeOutcome struct {
	Kind   OutcomeKind
	Result *models.JudgeResult
}

// OracleClient is the gateway to the external text-generation service. Both
// capabilities may be served by the same backing model.
type OracleClient interface {
	// GenerateAnalysis asks the oracle for an analysis draft. The outcome
	// is always one of the three kinds; it never returns a raw error.
	GenerateAnalysis(ctx context.Context, pc PromptContext) GenerateOutcome

	// Judge asks the oracle to validate a canonical draft against the
	// source news and financial data.
	Judge(ctx context.Context, in JudgeInput) JudgeOutcome
}

// FinancialClient looks up financial ratios for a stock code.
type FinancialClient interface {
	// GetRatios returns the ratio set for a stock code. A (nil, nil)
	// return means no data is available, which is a valid state.
	GetRatios(ctx context.Context, stockCode string) (*models.FinancialRatios, error)
}

// NewsClient fetches news items from an external source.
type NewsClient interface {
	// FetchNews retrieves up to limit recent items matching the query.
	FetchNews(ctx context.Context, query string, limit int) ([]*models.NewsItem, error)

	// Name identifies the source for logging and NewsItem.Source.
	Name() string
}
