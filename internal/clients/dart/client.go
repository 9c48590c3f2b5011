// Package dart provides a client for the Korean DART corporate disclosure
// API, mapping published financial statements onto the ratio set the health
// scorer consumes.
package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

const (
	DefaultBaseURL   = "https://opendart.fss.or.kr/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	reportCodeAnnual = "11011"

	statusOK     = "000"
	statusNoData = "013"
)

// Client implements the FinancialClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter

	mu          sync.Mutex
	corpByStock map[string]string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new DART client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("DART API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// statementResponse is the wire shape of the single-company financial
// statement endpoint. Amounts arrive as comma-grouped strings.
type statementResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		AccountName string `json:"account_nm"`
		FSDiv       string `json:"fs_div"`
		Amount      string `json:"thstrm_amount"`
	} `json:"list"`
}

// GetRatios returns the ratio set derived from the company's most recent
// annual statement. A (nil, nil) return means DART has no data for the
// code, which is a valid state for unlisted or newly listed companies.
func (c *Client) GetRatios(ctx context.Context, stockCode string) (*models.FinancialRatios, error) {
	corpCode, err := c.resolveCorpCode(ctx, stockCode)
	if err != nil {
		return nil, err
	}
	if corpCode == "" {
		return nil, nil
	}

	// Annual statements for year N publish well into year N+1, so walk
	// back up to two years before giving up.
	year := time.Now().Year() - 1
	for _, y := range []int{year, year - 1} {
		ratios, err := c.fetchRatios(ctx, stockCode, corpCode, y)
		if err != nil {
			return nil, err
		}
		if ratios != nil {
			return ratios, nil
		}
	}

	return nil, nil
}

func (c *Client) fetchRatios(ctx context.Context, stockCode, corpCode string, year int) (*models.FinancialRatios, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", reportCodeAnnual)

	var resp statementResponse
	if err := c.get(ctx, "/fnlttSinglAcnt.json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
	case statusNoData:
		return nil, nil
	default:
		return nil, &APIError{Message: fmt.Sprintf("%s: %s", resp.Status, resp.Message), Endpoint: "/fnlttSinglAcnt.json"}
	}

	accounts := map[string]float64{}
	for _, entry := range resp.List {
		// Prefer consolidated figures; standalone fills the gaps.
		if entry.FSDiv == "OFS" {
			if _, ok := accounts[entry.AccountName]; ok {
				continue
			}
		}
		if amount, ok := parseAmount(entry.Amount); ok {
			accounts[entry.AccountName] = amount
		}
	}

	return deriveRatios(stockCode, accounts), nil
}

// Statement account names as published by DART.
const (
	acctRevenue            = "매출액"
	acctNetIncome          = "당기순이익"
	acctTotalAssets        = "자산총계"
	acctTotalLiabilities   = "부채총계"
	acctTotalEquity        = "자본총계"
	acctCurrentAssets      = "유동자산"
	acctCurrentLiabilities = "유동부채"
)

// deriveRatios computes the scoring ratios from raw statement accounts.
// Each ratio is only set when its inputs are present; division by zero is
// left to produce a non-finite value, which the scorer treats as worst
// case.
func deriveRatios(stockCode string, accounts map[string]float64) *models.FinancialRatios {
	ratios := &models.FinancialRatios{
		StockCode: stockCode,
		Source:    "dart",
	}
	found := false

	if revenue, ok := accounts[acctRevenue]; ok {
		if netIncome, ok := accounts[acctNetIncome]; ok {
			v := netIncome / revenue * 100
			ratios.ProfitMarginPct = &v
			found = true
		}
	}
	if equity, ok := accounts[acctTotalEquity]; ok {
		if liabilities, ok := accounts[acctTotalLiabilities]; ok {
			v := liabilities / equity * 100
			ratios.DebtToEquityPct = &v
			found = true
		}
	}
	if currentLiabilities, ok := accounts[acctCurrentLiabilities]; ok {
		if currentAssets, ok := accounts[acctCurrentAssets]; ok {
			v := currentAssets / currentLiabilities
			ratios.CurrentRatio = &v
			found = true
		}
	}
	if assets, ok := accounts[acctTotalAssets]; ok {
		if equity, ok := accounts[acctTotalEquity]; ok {
			v := equity / assets * 100
			ratios.EquityToAssetsPct = &v
			found = true
		}
	}

	if !found {
		return nil
	}
	return ratios
}

// parseAmount parses a comma-grouped statement amount. Empty and dash
// placeholders mean not reported.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("crtfc_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("DART API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Ensure Client implements FinancialClient
var _ interfaces.FinancialClient = (*Client)(nil)
