package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

// ErrNoNews is returned when the analysis window contains no input news.
// Terminal and non-retryable.
var ErrNoNews = errors.New("no news to analyze")

// DefaultMaxRetries is the per-stage generation attempt budget.
const DefaultMaxRetries = 3

// State is a pipeline stage.
type State int

// Pipeline states. Each phase cycles GENERATE → CANONICALIZE → VALIDATE →
// {ACCEPT, RETRY}; RETRY loops back to GENERATE until the attempt budget is
// spent. A run finishes in REPORT.
const (
	StateGenerate State = iota
	StateCanonicalize
	StateValidate
	StateAccept
	StateRetry
	StateReport
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateGenerate:
		return "GENERATE"
	case StateCanonicalize:
		return "CANONICALIZE"
	case StateValidate:
		return "VALIDATE"
	case StateAccept:
		return "ACCEPT"
	case StateRetry:
		return "RETRY"
	case StateReport:
		return "REPORT"
	default:
		return "UNKNOWN"
	}
}

// Event drives a pipeline state transition.
type Event int

// Pipeline events.
const (
	EventDraftProduced Event = iota
	EventCanonicalized
	EventVerdictAccept
	EventVerdictReject
	EventRetryScheduled
	EventPhaseComplete
)

// transition is the pipeline's transition function. The second return is
// false for an event that is not legal in the given state.
func transition(state State, event Event) (State, bool) {
	switch state {
	case StateGenerate:
		if event == EventDraftProduced {
			return StateCanonicalize, true
		}
	case StateCanonicalize:
		// Canonicalization is total; it cannot fail.
		if event == EventCanonicalized {
			return StateValidate, true
		}
	case StateValidate:
		switch event {
		case EventVerdictAccept:
			return StateAccept, true
		case EventVerdictReject:
			return StateRetry, true
		}
	case StateRetry:
		if event == EventRetryScheduled {
			return StateGenerate, true
		}
	case StateAccept:
		if event == EventPhaseComplete {
			return StateReport, true
		}
	}
	return state, false
}

// Config holds pipeline tuning.
type Config struct {
	MaxRetries int  // per-stage generation attempt budget
	FailOpen   bool // validator policy when the judgment oracle is unavailable
}

// Pipeline sequences generation, canonicalization, validation, and scoring
// into a report. All mutable run state (attempt counters, exclusion lists,
// the in-flight draft) is owned by a single run; independent runs share
// nothing and may proceed concurrently.
type Pipeline struct {
	oracle     interfaces.OracleClient
	financial  interfaces.FinancialClient
	validator  *Validator
	maxRetries int
	logger     *common.Logger
}

// NewPipeline creates a pipeline. oracle and financial may be nil: a nil
// oracle degrades every generation to unavailable, and a nil financial
// client makes every ratio lookup absent.
func NewPipeline(oracle interfaces.OracleClient, financial interfaces.FinancialClient, cfg Config, logger *common.Logger) *Pipeline {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Pipeline{
		oracle:     oracle,
		financial:  financial,
		validator:  NewValidator(oracle, cfg.FailOpen, logger),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// phaseResult is the outcome of one generate/validate phase.
type phaseResult struct {
	draft    *models.AnalysisDraft
	attempts int
	accepted bool // true when a verdict passed, false on budget exhaustion
}

// Run executes the full pipeline over a news batch and assembles the report
// for the given analysis date. A report is always produced once input news
// exists, even under total oracle unavailability; only an empty batch is an
// error.
func (p *Pipeline) Run(ctx context.Context, news []*models.NewsItem, date time.Time) (*models.Report, error) {
	if len(news) == 0 {
		return nil, ErrNoNews
	}

	digest := BuildNewsDigest(news)
	ratioCache := map[string]*models.FinancialRatios{}

	primary := p.runPhase(ctx, "primary", digest, nil, ratioCache)

	// Secondary refinement mirrors the primary phase with its own attempt
	// budget, proposing ripple-effect candidates around the accepted draft.
	secondary := p.runPhase(ctx, "secondary", digest, primary.draft, ratioCache)

	final := mergeDrafts(primary.draft, secondary.draft)
	p.scoreDraft(ctx, final, ratioCache)

	// A refinement pass that contributed nothing cannot invalidate an
	// accepted primary analysis.
	validated := primary.accepted && secondary.accepted
	if secondary.draft == nil || len(secondary.draft.Industries) == 0 {
		validated = primary.accepted
	}

	report := &models.Report{
		ID:           uuid.NewString(),
		Title:        fmt.Sprintf("%s market trend analysis", date.Format("2006-01-02")),
		Summary:      final.Summary,
		AnalysisDate: date.Format("2006-01-02"),
		CreatedAt:    time.Now().UTC(),
		Industries:   final.Industries,
		NewsIDs:      newsIDs(news),
		Attempts:     primary.attempts + secondary.attempts,
		Validated:    validated,
	}

	p.logger.Info().
		Str("date", report.AnalysisDate).
		Int("industries", len(report.Industries)).
		Int("attempts", report.Attempts).
		Bool("validated", report.Validated).
		Msg("Pipeline complete")

	return report, nil
}

// runPhase drives the state machine for one phase. base is nil for the
// primary phase and the accepted primary draft for the refinement phase.
func (p *Pipeline) runPhase(ctx context.Context, phase, digest string, base *models.AnalysisDraft, ratioCache map[string]*models.FinancialRatios) phaseResult {
	state := StateGenerate
	attempts := 0
	accepted := false
	var excludedStocks, excludedIndustries []string
	var outcome interfaces.GenerateOutcome
	var draft *models.AnalysisDraft

	for state != StateReport {
		switch state {
		case StateGenerate:
			attempts++
			outcome = p.generate(ctx, digest, base, excludedStocks, excludedIndustries)
			p.logger.Debug().
				Str("phase", phase).
				Int("attempt", attempts).
				Str("outcome", outcome.Kind.String()).
				Msg("Draft generated")
			state = mustTransition(state, EventDraftProduced)

		case StateCanonicalize:
			draft = Canonicalize(outcome.Payload)
			state = mustTransition(state, EventCanonicalized)

		case StateValidate:
			verdict := p.validate(ctx, draft, digest, outcome, ratioCache)
			switch {
			case verdict.Accepted():
				accepted = true
				state = mustTransition(state, EventVerdictAccept)
			case attempts >= p.maxRetries:
				// Budget spent: degrade to the best available
				// answer rather than loop forever.
				p.logger.Warn().
					Str("phase", phase).
					Int("attempts", attempts).
					Str("rationale", verdict.Rationale).
					Msg("Retry budget exhausted, accepting last draft")
				state = mustTransition(state, EventVerdictAccept)
			default:
				excludedStocks, excludedIndustries = extendExclusions(
					excludedStocks, excludedIndustries, &verdict, draft)
				p.logger.Debug().
					Str("phase", phase).
					Int("attempt", attempts).
					Str("rationale", verdict.Rationale).
					Msg("Draft rejected, retrying")
				state = mustTransition(state, EventVerdictReject)
			}

		case StateRetry:
			// Nothing from the rejected draft carries forward except
			// the attempt counter and the exclusion lists.
			draft = nil
			state = mustTransition(state, EventRetryScheduled)

		case StateAccept:
			state = mustTransition(state, EventPhaseComplete)
		}
	}

	return phaseResult{draft: draft, attempts: attempts, accepted: accepted}
}

func mustTransition(state State, event Event) State {
	next, ok := transition(state, event)
	if !ok {
		// Unreachable by construction; the run loop only emits legal events.
		panic(fmt.Sprintf("illegal pipeline transition: %s + event %d", state, event))
	}
	return next
}

func (p *Pipeline) generate(ctx context.Context, digest string, base *models.AnalysisDraft, excludedStocks, excludedIndustries []string) interfaces.GenerateOutcome {
	if p.oracle == nil {
		return interfaces.GenerateOutcome{Kind: interfaces.OutcomeUnavailable}
	}
	return p.oracle.GenerateAnalysis(ctx, interfaces.PromptContext{
		NewsDigest:         digest,
		Refine:             base != nil,
		BaseDraft:          base,
		ExcludedStocks:     excludedStocks,
		ExcludedIndustries: excludedIndustries,
	})
}

// validate judges the canonical draft. A draft from a failed generation is
// rejected without consulting the judgment oracle; there is nothing real to
// judge.
func (p *Pipeline) validate(ctx context.Context, draft *models.AnalysisDraft, digest string, outcome interfaces.GenerateOutcome, ratioCache map[string]*models.FinancialRatios) models.ValidationVerdict {
	if outcome.Kind != interfaces.OutcomeSuccess {
		return models.ValidationVerdict{
			IndustryValid: false,
			StocksValid:   false,
			Rationale:     fmt.Sprintf("generation %s", outcome.Kind),
		}
	}

	financials := p.lookupRatios(ctx, draft, ratioCache)
	return p.validator.Validate(ctx, draft, digest, financials)
}

// lookupRatios fetches financial ratios for every distinct stock code in the
// draft. Lookup failures and absent data both yield no entry; absence is a
// valid state, not an error.
func (p *Pipeline) lookupRatios(ctx context.Context, draft *models.AnalysisDraft, cache map[string]*models.FinancialRatios) []*models.FinancialRatios {
	var out []*models.FinancialRatios
	seen := map[string]bool{}

	for _, industry := range draft.Industries {
		for _, stock := range industry.Stocks {
			code := stock.StockCode
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true

			ratios, cached := cache[code]
			if !cached {
				ratios = p.fetchRatios(ctx, code)
				cache[code] = ratios
			}
			if ratios != nil {
				out = append(out, ratios)
			}
		}
	}

	return out
}

func (p *Pipeline) fetchRatios(ctx context.Context, code string) *models.FinancialRatios {
	if p.financial == nil {
		return nil
	}
	ratios, err := p.financial.GetRatios(ctx, code)
	if err != nil {
		p.logger.Warn().Err(err).Str("stock_code", code).Msg("Financial lookup failed, treating as absent")
		return nil
	}
	return ratios
}

// scoreDraft attaches a health score to every stock in the draft. Stocks
// without a complete ratio set get the sentinel mid-score.
func (p *Pipeline) scoreDraft(ctx context.Context, draft *models.AnalysisDraft, cache map[string]*models.FinancialRatios) {
	for i := range draft.Industries {
		stocks := draft.Industries[i].Stocks
		for j := range stocks {
			code := stocks[j].StockCode
			var ratios *models.FinancialRatios
			if code != "" {
				cached, ok := cache[code]
				if !ok {
					cached = p.fetchRatios(ctx, code)
					cache[code] = cached
				}
				ratios = cached
			}
			score := ScoreHealth(ratios)
			stocks[j].Health = &score
		}
	}
}

// extendExclusions appends the judge's rejected identifiers to the exclusion
// lists. A rejection with no specifics excludes everything the draft
// proposed, steering the next attempt toward new candidates.
func extendExclusions(stocks, industries []string, verdict *models.ValidationVerdict, draft *models.AnalysisDraft) ([]string, []string) {
	if len(verdict.RejectedStocks) > 0 || len(verdict.RejectedIndustries) > 0 {
		stocks = appendUnique(stocks, verdict.RejectedStocks)
		industries = appendUnique(industries, verdict.RejectedIndustries)
		return stocks, industries
	}

	var codes []string
	for _, industry := range draft.Industries {
		for _, stock := range industry.Stocks {
			if stock.StockCode != "" {
				codes = append(codes, stock.StockCode)
			}
		}
	}
	return appendUnique(stocks, codes), industries
}

func appendUnique(dst []string, values []string) []string {
	seen := map[string]bool{}
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if v != "" && !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

// mergeDrafts combines the primary draft with refinement industries,
// skipping industries the primary already covers.
func mergeDrafts(primary, secondary *models.AnalysisDraft) *models.AnalysisDraft {
	if primary == nil {
		primary = &models.AnalysisDraft{Industries: []models.IndustryDraft{}}
	}
	if secondary == nil {
		return primary
	}

	merged := &models.AnalysisDraft{
		Summary:    primary.Summary,
		Industries: append([]models.IndustryDraft{}, primary.Industries...),
	}
	if merged.Summary == "" {
		merged.Summary = secondary.Summary
	}

	existing := map[string]bool{}
	for _, industry := range primary.Industries {
		existing[industry.IndustryName] = true
	}
	for _, industry := range secondary.Industries {
		if industry.IndustryName != "" && existing[industry.IndustryName] {
			continue
		}
		if len(industry.Stocks) == 0 {
			continue
		}
		merged.Industries = append(merged.Industries, industry)
	}

	return merged
}

func newsIDs(news []*models.NewsItem) []string {
	ids := make([]string, 0, len(news))
	for _, item := range news {
		ids = append(ids, item.ID)
	}
	return ids
}
