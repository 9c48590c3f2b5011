package news

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

type fakeClient struct {
	name  string
	items []*models.NewsItem
	err   error
}

func (f *fakeClient) FetchNews(_ context.Context, _ string, _ int) ([]*models.NewsItem, error) {
	return f.items, f.err
}

func (f *fakeClient) Name() string { return f.name }

type memNewsStorage struct {
	byURL map[string]*models.NewsItem
}

func newMemNewsStorage() *memNewsStorage {
	return &memNewsStorage{byURL: map[string]*models.NewsItem{}}
}

func (m *memNewsStorage) SaveNews(_ context.Context, items []*models.NewsItem) (int, error) {
	saved := 0
	for _, item := range items {
		if _, ok := m.byURL[item.URL]; ok {
			continue
		}
		m.byURL[item.URL] = item
		saved++
	}
	return saved, nil
}

func (m *memNewsStorage) GetNewsByRange(_ context.Context, from, to time.Time) ([]*models.NewsItem, error) {
	var out []*models.NewsItem
	for _, item := range m.byURL {
		if !item.PublishedAt.Before(from) && item.PublishedAt.Before(to) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memNewsStorage) HasURL(_ context.Context, url string) (bool, error) {
	_, ok := m.byURL[url]
	return ok, nil
}

func item(id, url string) *models.NewsItem {
	return &models.NewsItem{ID: id, Title: id, URL: url, PublishedAt: time.Now()}
}

func clientList(clients ...interfaces.NewsClient) []interfaces.NewsClient {
	return clients
}

func TestCollectNewsAcrossSources(t *testing.T) {
	storage := newMemNewsStorage()
	primary := &fakeClient{name: "naver", items: []*models.NewsItem{item("n1", "u1"), item("n2", "u2")}}
	secondary := &fakeClient{name: "rss", items: []*models.NewsItem{item("n3", "u2"), item("n4", "u3")}}

	svc := NewService(clientList(primary, secondary), storage, nil)
	saved, err := svc.CollectNews(context.Background(), "주식", 30)
	require.NoError(t, err)
	// u2 arrives from both sources and is stored once.
	assert.Equal(t, 3, saved)
}

func TestCollectNewsSkipsFailingSource(t *testing.T) {
	storage := newMemNewsStorage()
	broken := &fakeClient{name: "naver", err: fmt.Errorf("rate limited")}
	working := &fakeClient{name: "rss", items: []*models.NewsItem{item("n1", "u1")}}

	svc := NewService(clientList(broken, working), storage, nil)
	saved, err := svc.CollectNews(context.Background(), "주식", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestCollectNewsNoSources(t *testing.T) {
	svc := NewService(nil, newMemNewsStorage(), nil)
	saved, err := svc.CollectNews(context.Background(), "주식", 30)
	require.NoError(t, err)
	assert.Zero(t, saved)
}
