package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/models"
)

type newsStorage struct {
	store  *Store
	logger *common.Logger
}

// NewNewsStorage creates a new NewsStorage backed by BadgerHold.
func NewNewsStorage(store *Store, logger *common.Logger) *newsStorage {
	return &newsStorage{store: store, logger: logger}
}

// SaveNews inserts items whose URL is not already stored and returns the
// count actually written.
func (s *newsStorage) SaveNews(ctx context.Context, items []*models.NewsItem) (int, error) {
	saved := 0
	for _, item := range items {
		exists, err := s.HasURL(ctx, item.URL)
		if err != nil {
			return saved, err
		}
		if exists {
			continue
		}
		if err := s.store.db.Insert(item.ID, item); err != nil {
			return saved, fmt.Errorf("failed to save news item: %w", err)
		}
		saved++
	}
	s.logger.Debug().Int("received", len(items)).Int("saved", saved).Msg("News saved")
	return saved, nil
}

// GetNewsByRange returns items published in [from, to), oldest first.
func (s *newsStorage) GetNewsByRange(_ context.Context, from, to time.Time) ([]*models.NewsItem, error) {
	var items []models.NewsItem
	query := badgerhold.Where("PublishedAt").Ge(from).And("PublishedAt").Lt(to).Index("PublishedAt")
	if err := s.store.db.Find(&items, query); err != nil {
		return nil, fmt.Errorf("failed to query news range: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.Before(items[j].PublishedAt)
	})

	out := make([]*models.NewsItem, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

func (s *newsStorage) HasURL(_ context.Context, url string) (bool, error) {
	count, err := s.store.db.Count(models.NewsItem{}, badgerhold.Where("URL").Eq(url).Index("URL"))
	if err != nil {
		return false, fmt.Errorf("failed to check news URL: %w", err)
	}
	return count > 0, nil
}
