// Package naver provides a client for the Naver Open API news search
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

const (
	DefaultBaseURL   = "https://openapi.naver.com/v1"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second

	maxDisplay = 100 // API page-size ceiling
)

// Client implements the NewsClient interface
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
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

// NewClient creates a new Naver news client
func NewClient(clientID, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
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
	return fmt.Sprintf("Naver API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Name identifies this source on collected items.
func (c *Client) Name() string {
	return "naver"
}

// newsResponse is the wire shape of the news search endpoint.
type newsResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		PubDate     string `json:"pubDate"`
	} `json:"items"`
}

// FetchNews retrieves up to limit recent news items matching the query,
// newest first.
func (c *Client) FetchNews(ctx context.Context, query string, limit int) ([]*models.NewsItem, error) {
	if limit <= 0 || limit > maxDisplay {
		limit = maxDisplay
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", fmt.Sprintf("%d", limit))
	params.Set("sort", "date")

	var resp newsResponse
	if err := c.get(ctx, "/search/news.json", params, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]*models.NewsItem, 0, len(resp.Items))
	for _, raw := range resp.Items {
		item := &models.NewsItem{
			ID:          uuid.NewString(),
			Title:       cleanText(raw.Title),
			Body:        cleanText(raw.Description),
			URL:         raw.Link,
			Source:      c.Name(),
			PublishedAt: parsePubDate(raw.PubDate, now),
			CollectedAt: now,
		}
		if item.Title == "" || item.URL == "" {
			continue
		}
		items = append(items, item)
	}

	c.logger.Debug().Str("query", query).Int("items", len(items)).Msg("Naver news fetched")
	return items, nil
}

// get performs a rate-limited GET request with the API credential headers.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Naver API request")

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

// cleanText strips the search API's highlight tags and entity escapes.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	s = strings.ReplaceAll(s, "</b>", "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// parsePubDate parses the RFC1123-with-zone timestamps the API emits,
// falling back to the collection time.
func parsePubDate(s string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t.UTC()
	}
	return fallback
}

// Ensure Client implements NewsClient
var _ interfaces.NewsClient = (*Client)(nil)
