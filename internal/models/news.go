// Package models defines data structures for Newslens
package models

import "time"

// NewsItem is a collected news article. Immutable once stored; the analysis
// pipeline only reads it.
type NewsItem struct {
	ID          string    `json:"id" badgerhold:"key"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	URL         string    `json:"url" badgerhold:"index"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at" badgerhold:"index"`
	CollectedAt time.Time `json:"collected_at"`
}
