package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

// fakeOracle scripts generation and judgment outcomes for pipeline tests.
type fakeOracle struct {
	generate func(pc interfaces.PromptContext) interfaces.GenerateOutcome
	judge    func(in interfaces.JudgeInput) interfaces.JudgeOutcome

	generateCalls []interfaces.PromptContext
	judgeCalls    int
}

func (f *fakeOracle) GenerateAnalysis(_ context.Context, pc interfaces.PromptContext) interfaces.GenerateOutcome {
	f.generateCalls = append(f.generateCalls, pc)
	if f.generate == nil {
		return interfaces.GenerateOutcome{Kind: interfaces.OutcomeUnavailable}
	}
	return f.generate(pc)
}

func (f *fakeOracle) Judge(_ context.Context, in interfaces.JudgeInput) interfaces.JudgeOutcome {
	f.judgeCalls++
	if f.judge == nil {
		return interfaces.JudgeOutcome{Kind: interfaces.OutcomeUnavailable}
	}
	return f.judge(in)
}

func acceptingJudge(_ interfaces.JudgeInput) interfaces.JudgeOutcome {
	return interfaces.JudgeOutcome{
		Kind:   interfaces.OutcomeSuccess,
		Result: &models.JudgeResult{IsRelevant: true, IsSound: true},
	}
}

func TestValidatorMapsJudgeResult(t *testing.T) {
	oracle := &fakeOracle{
		judge: func(_ interfaces.JudgeInput) interfaces.JudgeOutcome {
			return interfaces.JudgeOutcome{
				Kind: interfaces.OutcomeSuccess,
				Result: &models.JudgeResult{
					IsRelevant:     true,
					IsSound:        false,
					Rationale:      "weak balance sheets",
					RejectedStocks: []string{"005930"},
				},
			}
		},
	}
	v := NewValidator(oracle, true, nil)

	verdict := v.Validate(context.Background(), &models.AnalysisDraft{}, "digest", nil)
	assert.True(t, verdict.IndustryValid)
	assert.False(t, verdict.StocksValid)
	assert.False(t, verdict.Accepted())
	assert.Equal(t, "weak balance sheets", verdict.Rationale)
	assert.Equal(t, []string{"005930"}, verdict.RejectedStocks)
}

func TestValidatorFailOpen(t *testing.T) {
	v := NewValidator(&fakeOracle{}, true, nil)

	verdict := v.Validate(context.Background(), &models.AnalysisDraft{}, "digest", nil)
	assert.True(t, verdict.Accepted())
	assert.Equal(t, "validation skipped", verdict.Rationale)
}

func TestValidatorFailClosed(t *testing.T) {
	v := NewValidator(&fakeOracle{}, false, nil)

	verdict := v.Validate(context.Background(), &models.AnalysisDraft{}, "digest", nil)
	assert.False(t, verdict.Accepted())
	assert.Equal(t, "validation unavailable", verdict.Rationale)
}

func TestValidatorNilOracle(t *testing.T) {
	open := NewValidator(nil, true, nil)
	assert.True(t, open.Validate(context.Background(), &models.AnalysisDraft{}, "", nil).Accepted())

	closed := NewValidator(nil, false, nil)
	assert.False(t, closed.Validate(context.Background(), &models.AnalysisDraft{}, "", nil).Accepted())
}
