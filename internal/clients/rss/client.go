// Package rss collects news from configured RSS and Atom feeds.
package rss

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

const DefaultTimeout = 15 * time.Second

// Client implements the NewsClient interface over a fixed feed list.
type Client struct {
	feeds  []string
	parser *gofeed.Parser
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a feed client over the given feed URLs.
func NewClient(feeds []string, opts ...ClientOption) *Client {
	c := &Client{
		feeds:  feeds,
		parser: gofeed.NewParser(),
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies this source on collected items.
func (c *Client) Name() string {
	return "rss"
}

// FetchNews pulls every configured feed and returns up to limit items whose
// title or body matches the query. A query that matches nothing still
// returns cleanly; a feed that fails to parse is skipped, not fatal.
func (c *Client) FetchNews(ctx context.Context, query string, limit int) ([]*models.NewsItem, error) {
	now := time.Now().UTC()
	var items []*models.NewsItem

	for _, feedURL := range c.feeds {
		fetchCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		feed, err := c.parser.ParseURLWithContext(feedURL, fetchCtx)
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Str("feed", feedURL).Msg("Feed fetch failed, skipping")
			continue
		}

		for _, entry := range feed.Items {
			if entry.Title == "" || entry.Link == "" {
				continue
			}
			if query != "" && !matches(entry, query) {
				continue
			}
			item := &models.NewsItem{
				ID:          uuid.NewString(),
				Title:       strings.TrimSpace(entry.Title),
				Body:        strings.TrimSpace(entry.Description),
				URL:         entry.Link,
				Source:      c.Name(),
				PublishedAt: publishedAt(entry, now),
				CollectedAt: now,
			}
			items = append(items, item)
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
		}
	}

	return items, nil
}

func matches(entry *gofeed.Item, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(entry.Title), q) ||
		strings.Contains(strings.ToLower(entry.Description), q)
}

func publishedAt(entry *gofeed.Item, fallback time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return fallback
}

// Ensure Client implements NewsClient
var _ interfaces.NewsClient = (*Client)(nil)
