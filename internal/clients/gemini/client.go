// Package gemini provides the oracle gateway over the Google Gemini API.
// All transport and parse failures are folded into the three-outcome
// taxonomy before they reach callers.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

const DefaultModel = "gemini-2.5-flash"

// Generation temperatures. Drafts are produced deterministically; judgments
// get a little headroom for free-text rationale.
const (
	generateTemperature float32 = 0.0
	judgeTemperature    float32 = 0.3
)

// Client implements the OracleClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateAnalysis asks the model for an analysis draft and classifies the
// result. The decoded payload is untrusted JSON; schema conformance is the
// canonicalizer's problem, not the gateway's.
func (c *Client) GenerateAnalysis(ctx context.Context, pc interfaces.PromptContext) interfaces.GenerateOutcome {
	prompt := buildAnalysisPrompt(pc)

	text, err := c.generate(ctx, prompt, generateTemperature)
	if err != nil {
		c.logger.Warn().Err(err).Str("model", c.model).Msg("Generation unavailable")
		return interfaces.GenerateOutcome{Kind: interfaces.OutcomeUnavailable}
	}

	payload, ok := extractJSON(text)
	if !ok {
		c.logger.Warn().Str("model", c.model).Int("length", len(text)).Msg("Generation response had no parsable JSON")
		return interfaces.GenerateOutcome{Kind: interfaces.OutcomeMalformed, Raw: text}
	}

	return interfaces.GenerateOutcome{
		Kind:    interfaces.OutcomeSuccess,
		Payload: payload,
		Raw:     text,
	}
}

// Judge asks the model to validate a canonical draft against its source news
// and financial data.
func (c *Client) Judge(ctx context.Context, in interfaces.JudgeInput) interfaces.JudgeOutcome {
	prompt := buildJudgePrompt(in)

	text, err := c.generate(ctx, prompt, judgeTemperature)
	if err != nil {
		c.logger.Warn().Err(err).Str("model", c.model).Msg("Judgment unavailable")
		return interfaces.JudgeOutcome{Kind: interfaces.OutcomeUnavailable}
	}

	payload, ok := extractJSON(text)
	if !ok {
		c.logger.Warn().Str("model", c.model).Msg("Judgment response had no parsable JSON")
		return interfaces.JudgeOutcome{Kind: interfaces.OutcomeMalformed}
	}

	result, ok := parseJudgeResult(payload)
	if !ok {
		return interfaces.JudgeOutcome{Kind: interfaces.OutcomeMalformed}
	}

	return interfaces.JudgeOutcome{Kind: interfaces.OutcomeSuccess, Result: result}
}

func (c *Client) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	temp := temperature
	config := &genai.GenerateContentConfig{Temperature: &temp}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// parseJudgeResult maps the judge's JSON verdict onto a JudgeResult. The
// two boolean verdicts must be present; everything else is optional.
func parseJudgeResult(payload any) (*models.JudgeResult, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}

	relevant, relevantOK := m["is_relevant"].(bool)
	sound, soundOK := m["is_sound"].(bool)
	if !relevantOK || !soundOK {
		return nil, false
	}

	result := &models.JudgeResult{
		IsRelevant: relevant,
		IsSound:    sound,
	}
	if rationale, ok := m["rationale"].(string); ok {
		result.Rationale = rationale
	}
	result.RejectedStocks = stringList(m["rejected_stocks"])
	result.RejectedIndustries = stringList(m["rejected_industries"])

	return result, true
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, entry := range list {
		if s, ok := entry.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Ensure Client implements OracleClient
var _ interfaces.OracleClient = (*Client)(nil)
