// Package report implements report generation and retrieval on top of the
// analysis pipeline.
package report

import (
	"context"
	"time"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
	"github.com/minwooahn/newslens/internal/services/analysis"
)

// DefaultWindow is the news lookback for a report when none is requested.
const DefaultWindow = 24 * time.Hour

// Service generates, persists, and serves analysis reports.
type Service struct {
	oracle    interfaces.OracleClient
	financial interfaces.FinancialClient
	news      interfaces.NewsService
	storage   interfaces.ReportStorage
	cfg       analysis.Config
	logger    *common.Logger
}

// NewService creates a report service.
func NewService(oracle interfaces.OracleClient, financial interfaces.FinancialClient, news interfaces.NewsService, storage interfaces.ReportStorage, cfg analysis.Config, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		oracle:    oracle,
		financial: financial,
		news:      news,
		storage:   storage,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateReport runs the pipeline over a news window and persists the
// result in a single write. The report is labeled with date; the window ends
// at opts.WindowEnd when set, otherwise at date itself. An empty window
// returns analysis.ErrNoNews and nothing is stored.
func (s *Service) GenerateReport(ctx context.Context, date time.Time, opts interfaces.ReportOptions) (*models.Report, error) {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	end := opts.WindowEnd
	if end.IsZero() {
		end = date
	}

	items, err := s.news.GetNewsByRange(ctx, end.Add(-window), end)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.logger.Info().Str("date", date.Format("2006-01-02")).Msg("No news in window, skipping report")
		return nil, analysis.ErrNoNews
	}

	cfg := s.cfg
	if opts.MaxRetries > 0 {
		cfg.MaxRetries = opts.MaxRetries
	}

	pipeline := analysis.NewPipeline(s.oracle, s.financial, cfg, s.logger)
	rep, err := pipeline.Run(ctx, items, date)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SaveReport(ctx, rep); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", rep.ID).Str("date", rep.AnalysisDate).Int("news", len(items)).Msg("Report generated")
	return rep, nil
}

func (s *Service) GetReport(ctx context.Context, id string) (*models.Report, error) {
	return s.storage.GetReport(ctx, id)
}

func (s *Service) GetReportByDate(ctx context.Context, date string) (*models.Report, error) {
	return s.storage.GetReportByDate(ctx, date)
}

func (s *Service) ListReports(ctx context.Context, limit int) ([]*models.Report, error) {
	return s.storage.ListReports(ctx, limit)
}

func (s *Service) DeleteReport(ctx context.Context, id string) error {
	return s.storage.DeleteReport(ctx, id)
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
