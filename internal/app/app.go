// Package app wires configuration, storage, clients, and services into a
// running application.
package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/minwooahn/newslens/internal/clients/dart"
	"github.com/minwooahn/newslens/internal/clients/gemini"
	"github.com/minwooahn/newslens/internal/clients/naver"
	"github.com/minwooahn/newslens/internal/clients/rss"
	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/services/analysis"
	"github.com/minwooahn/newslens/internal/services/news"
	"github.com/minwooahn/newslens/internal/services/report"
	"github.com/minwooahn/newslens/internal/storage/badger"
)

// App holds the wired application components.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	NewsService   interfaces.NewsService
	ReportService interfaces.ReportService

	scheduler *cron.Cron
}

// NewApp builds the application from configuration. Missing oracle or
// financial credentials degrade the relevant capability instead of failing
// startup; a report can still be produced without them.
func NewApp(ctx context.Context, cfg *common.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewLoggerFromConfig(cfg.Logging)
	}

	storage, err := badger.NewManager(logger, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Storage: storage,
	}

	oracle, err := a.buildOracle(ctx)
	if err != nil {
		storage.Close()
		return nil, err
	}
	financial := a.buildFinancial(ctx)
	sources := a.buildNewsSources()

	a.NewsService = news.NewService(sources, storage.NewsStorage(), logger)
	a.ReportService = report.NewService(oracle, financial, a.NewsService, storage.ReportStorage(), analysis.Config{
		MaxRetries: cfg.Pipeline.MaxRetries,
		FailOpen:   cfg.Pipeline.FailOpen,
	}, logger)

	return a, nil
}

func (a *App) buildOracle(ctx context.Context) (interfaces.OracleClient, error) {
	apiKey, err := common.ResolveAPIKey(ctx, a.Storage.KeyValueStorage(), "gemini_api_key", a.Config.Clients.Gemini.APIKey)
	if err != nil || apiKey == "" {
		a.Logger.Warn().Msg("No Gemini API key configured, analysis will run degraded")
		return nil, nil
	}

	client, err := gemini.NewClient(ctx, apiKey,
		gemini.WithModel(a.Config.Clients.Gemini.Model),
		gemini.WithLogger(a.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

func (a *App) buildFinancial(ctx context.Context) interfaces.FinancialClient {
	apiKey, err := common.ResolveAPIKey(ctx, a.Storage.KeyValueStorage(), "dart_api_key", a.Config.Clients.DART.APIKey)
	if err != nil || apiKey == "" {
		a.Logger.Warn().Msg("No DART API key configured, health scores will use sentinel values")
		return nil
	}

	opts := []dart.ClientOption{
		dart.WithLogger(a.Logger),
		dart.WithTimeout(a.Config.Clients.DART.GetTimeout()),
	}
	if a.Config.Clients.DART.BaseURL != "" {
		opts = append(opts, dart.WithBaseURL(a.Config.Clients.DART.BaseURL))
	}
	if a.Config.Clients.DART.RateLimit > 0 {
		opts = append(opts, dart.WithRateLimit(a.Config.Clients.DART.RateLimit))
	}
	return dart.NewClient(apiKey, opts...)
}

func (a *App) buildNewsSources() []interfaces.NewsClient {
	var sources []interfaces.NewsClient

	naverCfg := a.Config.Clients.Naver
	if naverCfg.ClientID != "" && naverCfg.ClientSecret != "" {
		opts := []naver.ClientOption{
			naver.WithLogger(a.Logger),
			naver.WithTimeout(naverCfg.GetTimeout()),
		}
		if naverCfg.BaseURL != "" {
			opts = append(opts, naver.WithBaseURL(naverCfg.BaseURL))
		}
		if naverCfg.RateLimit > 0 {
			opts = append(opts, naver.WithRateLimit(naverCfg.RateLimit))
		}
		sources = append(sources, naver.NewClient(naverCfg.ClientID, naverCfg.ClientSecret, opts...))
	}

	if len(a.Config.Clients.Feeds) > 0 {
		sources = append(sources, rss.NewClient(a.Config.Clients.Feeds, rss.WithLogger(a.Logger)))
	}

	if len(sources) == 0 {
		a.Logger.Warn().Msg("No news sources configured, collection will be a no-op")
	}
	return sources
}

// Close stops the scheduler and releases storage.
func (a *App) Close() error {
	a.StopScheduler()
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
