// Package news implements news collection across the configured sources.
package news

import (
	"context"
	"time"

	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
)

// Service collects news from every configured source and persists it.
// Duplicate URLs are dropped at the storage layer, so overlapping sources
// and repeated collection runs are safe.
type Service struct {
	clients []interfaces.NewsClient
	storage interfaces.NewsStorage
	logger  *common.Logger
}

// NewService creates a news service over the given source clients.
func NewService(clients []interfaces.NewsClient, storage interfaces.NewsStorage, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		clients: clients,
		storage: storage,
		logger:  logger,
	}
}

// CollectNews pulls up to limit items per source and stores the new ones,
// returning the count actually saved. A failing source is logged and
// skipped; collection succeeds as long as storage does.
func (s *Service) CollectNews(ctx context.Context, query string, limit int) (int, error) {
	saved := 0
	for _, client := range s.clients {
		items, err := client.FetchNews(ctx, query, limit)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", client.Name()).Msg("News source failed, skipping")
			continue
		}

		n, err := s.storage.SaveNews(ctx, items)
		if err != nil {
			return saved, err
		}
		saved += n
		s.logger.Info().Str("source", client.Name()).Int("fetched", len(items)).Int("saved", n).Msg("News collected")
	}
	return saved, nil
}

// GetNewsByRange returns stored items published in [from, to).
func (s *Service) GetNewsByRange(ctx context.Context, from, to time.Time) ([]*models.NewsItem, error) {
	return s.storage.GetNewsByRange(ctx, from, to)
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
