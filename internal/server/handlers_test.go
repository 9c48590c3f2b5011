package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minwooahn/newslens/internal/app"
	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
	"github.com/minwooahn/newslens/internal/services/analysis"
	"github.com/minwooahn/newslens/internal/storage/badger"
)

type stubNewsService struct {
	saved int
	items []*models.NewsItem
}

func (s *stubNewsService) CollectNews(_ context.Context, _ string, _ int) (int, error) {
	return s.saved, nil
}

func (s *stubNewsService) GetNewsByRange(_ context.Context, _, _ time.Time) ([]*models.NewsItem, error) {
	return s.items, nil
}

type stubReportService struct {
	reports  map[string]*models.Report
	noNews   bool
	lastDate time.Time
	lastOpts interfaces.ReportOptions
}

func (s *stubReportService) GenerateReport(_ context.Context, date time.Time, opts interfaces.ReportOptions) (*models.Report, error) {
	s.lastDate = date
	s.lastOpts = opts
	if s.noNews {
		return nil, analysis.ErrNoNews
	}
	return &models.Report{ID: "r1", AnalysisDate: date.Format("2006-01-02")}, nil
}

func (s *stubReportService) GetReport(_ context.Context, id string) (*models.Report, error) {
	if r, ok := s.reports[id]; ok {
		return r, nil
	}
	return nil, badger.ErrReportNotFound
}

func (s *stubReportService) GetReportByDate(_ context.Context, date string) (*models.Report, error) {
	for _, r := range s.reports {
		if r.AnalysisDate == date {
			return r, nil
		}
	}
	return nil, badger.ErrReportNotFound
}

func (s *stubReportService) ListReports(_ context.Context, _ int) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range s.reports {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubReportService) DeleteReport(_ context.Context, _ string) error {
	return nil
}

func newTestServer(news interfaces.NewsService, reports interfaces.ReportService) *Server {
	a := &app.App{
		Config:        common.NewDefaultConfig(),
		Logger:        common.NewSilentLogger(),
		NewsService:   news,
		ReportService: reports,
	}
	return NewServer(a)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubNewsService{}, &stubReportService{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(&stubNewsService{}, &stubReportService{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["version"])
}

func TestHandleNewsCollect(t *testing.T) {
	srv := newTestServer(&stubNewsService{saved: 7}, &stubReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/news/collect", strings.NewReader(`{"query":"반도체","limit":10}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["saved"])
}

func TestHandleNewsCollectRejectsBadLimit(t *testing.T) {
	srv := newTestServer(&stubNewsService{}, &stubReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/news/collect", strings.NewReader(`{"limit":5000}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeNoNews(t *testing.T) {
	srv := newTestServer(&stubNewsService{}, &stubReportService{noNews: true})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	reports := &stubReportService{}
	srv := newTestServer(&stubNewsService{}, reports)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"date":"2025-06-02"}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "r1", report.ID)
	assert.Equal(t, "2025-06-02", report.AnalysisDate)

	// The requested day is the report label; the news window runs through
	// the end of that same day.
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), reports.lastDate)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), reports.lastOpts.WindowEnd)
}

func TestHandleAnalyzeRejectsBadDate(t *testing.T) {
	srv := newTestServer(&stubNewsService{}, &stubReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"date":"June 2nd"}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteReportByIDAndDate(t *testing.T) {
	reports := &stubReportService{reports: map[string]*models.Report{
		"r1": {ID: "r1", AnalysisDate: "2025-06-02"},
	}}
	srv := newTestServer(&stubNewsService{}, reports)

	t.Run("by id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/r1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("by date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/2025-06-02", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubNewsService{}, &stubReportService{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
