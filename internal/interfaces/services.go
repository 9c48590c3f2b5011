// Package interfaces defines service contracts for Newslens
package interfaces

import (
	"context"
	"time"

	"github.com/minwooahn/newslens/internal/models"
)

// NewsService manages news collection and retrieval
type NewsService interface {
	// CollectNews fetches news from all configured sources, dedupes by
	// URL, and stores new items. Returns the number stored.
	CollectNews(ctx context.Context, query string, limit int) (int, error)

	// GetNewsByRange returns stored items published within [from, to).
	GetNewsByRange(ctx context.Context, from, to time.Time) ([]*models.NewsItem, error)
}

// ReportService drives the analysis pipeline and report persistence
type ReportService interface {
	// GenerateReport runs the full pipeline over the news window ending
	// at date and persists the resulting report.
	GenerateReport(ctx context.Context, date time.Time, options ReportOptions) (*models.Report, error)

	// GetReport retrieves a stored report by ID.
	GetReport(ctx context.Context, id string) (*models.Report, error)

	// GetReportByDate retrieves the most recent report for a calendar date.
	GetReportByDate(ctx context.Context, date string) (*models.Report, error)

	// ListReports returns stored reports, newest first.
	ListReports(ctx context.Context, limit int) ([]*models.Report, error)

	// DeleteReport removes a stored report.
	DeleteReport(ctx context.Context, id string) error
}

// ReportOptions configures report generation
type ReportOptions struct {
	Window     time.Duration // news lookback window (default 24h)
	WindowEnd  time.Time     // end of the news window; zero means the report date itself
	MaxRetries int           // per-stage generation budget (default from config)
}
