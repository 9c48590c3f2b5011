// Package interfaces defines service contracts for Newslens
package interfaces

import (
	"context"
	"time"

	"github.com/minwooahn/newslens/internal/models"
)

// ReportStorage persists analysis reports. SaveReport is a single
// all-or-nothing write; partial reports are never stored.
type ReportStorage interface {
	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	GetReportByDate(ctx context.Context, date string) (*models.Report, error)
	ListReports(ctx context.Context, limit int) ([]*models.Report, error)
	DeleteReport(ctx context.Context, id string) error
}

// NewsStorage persists collected news items.
type NewsStorage interface {
	SaveNews(ctx context.Context, items []*models.NewsItem) (int, error)
	GetNewsByRange(ctx context.Context, from, to time.Time) ([]*models.NewsItem, error)
	HasURL(ctx context.Context, url string) (bool, error)
}

// KeyValueStorage stores system settings such as API keys.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StorageManager provides access to all storage areas.
type StorageManager interface {
	ReportStorage() ReportStorage
	NewsStorage() NewsStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
