package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func sampleReport(id, date string, created time.Time) *models.Report {
	return &models.Report{
		ID:           id,
		Title:        date + " market trend analysis",
		Summary:      "test",
		AnalysisDate: date,
		CreatedAt:    created,
		Industries: []models.IndustryDraft{
			{
				IndustryName:   "semiconductors",
				ImpactLevel:    models.ImpactHigh,
				TrendDirection: models.TrendPositive,
				Stocks: []models.StockCandidate{
					{
						StockCode:       "005930",
						StockName:       "Samsung Electronics",
						ExpectedTrend:   models.ExpectedUp,
						ConfidenceScore: 0.8,
						Health:          &models.HealthScore{Value: 0.5, Note: models.InsufficientDataNote},
					},
				},
			},
		},
		NewsIDs:   []string{"n1"},
		Attempts:  2,
		Validated: true,
	}
}

func TestReportStorageRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.ReportStorage()

	report := sampleReport("r1", "2025-06-02", time.Now().UTC())
	require.NoError(t, store.SaveReport(ctx, report))

	got, err := store.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, report.Title, got.Title)
	require.Len(t, got.Industries, 1)
	require.Len(t, got.Industries[0].Stocks, 1)
	require.NotNil(t, got.Industries[0].Stocks[0].Health)
	assert.Equal(t, 0.5, got.Industries[0].Stocks[0].Health.Value)
	assert.True(t, got.Validated)
}

func TestReportStorageNotFound(t *testing.T) {
	m := newTestManager(t)

	_, err := m.ReportStorage().GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = m.ReportStorage().GetReportByDate(context.Background(), "1999-01-01")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestReportStorageByDatePicksLatest(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.ReportStorage()

	base := time.Now().UTC()
	require.NoError(t, store.SaveReport(ctx, sampleReport("r1", "2025-06-02", base)))
	require.NoError(t, store.SaveReport(ctx, sampleReport("r2", "2025-06-02", base.Add(time.Hour))))

	got, err := store.GetReportByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "r2", got.ID)
}

func TestReportStorageListNewestFirst(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.ReportStorage()

	base := time.Now().UTC()
	require.NoError(t, store.SaveReport(ctx, sampleReport("r1", "2025-06-01", base)))
	require.NoError(t, store.SaveReport(ctx, sampleReport("r2", "2025-06-02", base.Add(time.Hour))))
	require.NoError(t, store.SaveReport(ctx, sampleReport("r3", "2025-06-03", base.Add(2*time.Hour))))

	reports, err := store.ListReports(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r3", reports[0].ID)
	assert.Equal(t, "r2", reports[1].ID)
}

func TestReportStorageDelete(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.ReportStorage()

	require.NoError(t, store.SaveReport(ctx, sampleReport("r1", "2025-06-02", time.Now().UTC())))
	require.NoError(t, store.DeleteReport(ctx, "r1"))

	_, err := store.GetReport(ctx, "r1")
	assert.ErrorIs(t, err, ErrReportNotFound)

	// Deleting a missing report is not an error.
	assert.NoError(t, store.DeleteReport(ctx, "r1"))
}

func TestNewsStorageDedupeByURL(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.NewsStorage()

	now := time.Now().UTC()
	first := []*models.NewsItem{
		{ID: "n1", Title: "a", URL: "https://news.example/1", Source: "naver", PublishedAt: now, CollectedAt: now},
		{ID: "n2", Title: "b", URL: "https://news.example/2", Source: "naver", PublishedAt: now, CollectedAt: now},
	}
	saved, err := store.SaveNews(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	// Same URLs under new IDs are duplicates.
	second := []*models.NewsItem{
		{ID: "n3", Title: "a again", URL: "https://news.example/1", Source: "rss", PublishedAt: now, CollectedAt: now},
		{ID: "n4", Title: "c", URL: "https://news.example/3", Source: "rss", PublishedAt: now, CollectedAt: now},
	}
	saved, err = store.SaveNews(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	has, err := store.HasURL(ctx, "https://news.example/1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestNewsStorageRangeQuery(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.NewsStorage()

	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	items := []*models.NewsItem{
		{ID: "old", Title: "old", URL: "u1", PublishedAt: base.Add(-48 * time.Hour)},
		{ID: "mid", Title: "mid", URL: "u2", PublishedAt: base.Add(-12 * time.Hour)},
		{ID: "new", Title: "new", URL: "u3", PublishedAt: base.Add(-1 * time.Hour)},
		{ID: "future", Title: "future", URL: "u4", PublishedAt: base.Add(time.Hour)},
	}
	_, err := store.SaveNews(ctx, items)
	require.NoError(t, err)

	got, err := store.GetNewsByRange(ctx, base.Add(-24*time.Hour), base)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mid", got[0].ID)
	assert.Equal(t, "new", got[1].ID)
}

func TestKeyValueStorage(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	kv := m.KeyValueStorage()

	require.NoError(t, kv.Set(ctx, "gemini_api_key", "secret"))

	got, err := kv.Get(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	require.NoError(t, kv.Delete(ctx, "gemini_api_key"))
	_, err = kv.Get(ctx, "gemini_api_key")
	assert.Error(t, err)
}
