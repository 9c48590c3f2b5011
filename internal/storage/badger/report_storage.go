package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/models"
)

// ErrReportNotFound is returned when no report matches the lookup.
var ErrReportNotFound = fmt.Errorf("report not found")

type reportStorage struct {
	store  *Store
	logger *common.Logger
}

// NewReportStorage creates a new ReportStorage backed by BadgerHold.
func NewReportStorage(store *Store, logger *common.Logger) *reportStorage {
	return &reportStorage{store: store, logger: logger}
}

// SaveReport writes the report in one upsert. The report is either fully
// visible after this returns or not stored at all.
func (s *reportStorage) SaveReport(_ context.Context, report *models.Report) error {
	if err := s.store.db.Upsert(report.ID, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	s.logger.Debug().Str("id", report.ID).Str("date", report.AnalysisDate).Msg("Report saved")
	return nil
}

func (s *reportStorage) GetReport(_ context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := s.store.db.Get(id, &report)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report '%s': %w", id, err)
	}
	return &report, nil
}

// GetReportByDate returns the most recently created report for a date.
func (s *reportStorage) GetReportByDate(_ context.Context, date string) (*models.Report, error) {
	var reports []models.Report
	query := badgerhold.Where("AnalysisDate").Eq(date).Index("AnalysisDate")
	if err := s.store.db.Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to find report for date '%s': %w", date, err)
	}
	if len(reports) == 0 {
		return nil, ErrReportNotFound
	}

	latest := reports[0]
	for _, r := range reports[1:] {
		if r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return &latest, nil
}

// ListReports returns reports newest first, up to limit (0 means all).
func (s *reportStorage) ListReports(_ context.Context, limit int) ([]*models.Report, error) {
	var reports []models.Report
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.store.db.Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	out := make([]*models.Report, len(reports))
	for i := range reports {
		out[i] = &reports[i]
	}
	return out, nil
}

func (s *reportStorage) DeleteReport(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.Report{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete report '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Report deleted")
	return nil
}
