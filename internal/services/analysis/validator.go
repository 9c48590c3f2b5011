package analysis

import (
	"context"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

// Validator asks the judgment oracle whether a canonical draft traces to the
// source news and whether its candidates clear financial soundness
// thresholds.
//
// When the oracle cannot answer the verdict depends on the fail-open policy:
// open treats the draft as accepted (a missing secondary judgment should not
// block report generation), closed rejects it.
type Validator struct {
	oracle   interfaces.OracleClient
	failOpen bool
	logger   *common.Logger
}

// NewValidator creates a validator. oracle may be nil, in which case every
// validation resolves through the fail-open policy.
func NewValidator(oracle interfaces.OracleClient, failOpen bool, logger *common.Logger) *Validator {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Validator{oracle: oracle, failOpen: failOpen, logger: logger}
}

// Validate judges a canonical draft against its source news and financial
// data. It never returns an error: oracle failure resolves to a verdict via
// the fail-open policy.
func (v *Validator) Validate(ctx context.Context, draft *models.AnalysisDraft, newsDigest string, financials []*models.FinancialRatios) models.ValidationVerdict {
	if v.oracle == nil {
		return v.skipVerdict("no oracle")
	}

	outcome := v.oracle.Judge(ctx, interfaces.JudgeInput{
		Draft:      draft,
		NewsDigest: newsDigest,
		Financials: financials,
	})

	switch outcome.Kind {
	case interfaces.OutcomeSuccess:
		result := outcome.Result
		verdict := models.ValidationVerdict{
			IndustryValid:      result.IsRelevant,
			StocksValid:        result.IsSound,
			Rationale:          result.Rationale,
			RejectedStocks:     result.RejectedStocks,
			RejectedIndustries: result.RejectedIndustries,
		}
		v.logger.Debug().
			Bool("industry_valid", verdict.IndustryValid).
			Bool("stocks_valid", verdict.StocksValid).
			Msg("Validation verdict")
		return verdict
	default:
		return v.skipVerdict(outcome.Kind.String())
	}
}

func (v *Validator) skipVerdict(reason string) models.ValidationVerdict {
	if v.failOpen {
		v.logger.Warn().Str("reason", reason).Msg("Judgment oracle unavailable, accepting draft (fail-open)")
		return models.ValidationVerdict{
			IndustryValid: true,
			StocksValid:   true,
			Rationale:     "validation skipped",
		}
	}
	v.logger.Warn().Str("reason", reason).Msg("Judgment oracle unavailable, rejecting draft (fail-closed)")
	return models.ValidationVerdict{
		IndustryValid: false,
		StocksValid:   false,
		Rationale:     "validation unavailable",
	}
}
