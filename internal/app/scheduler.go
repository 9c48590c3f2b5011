package app

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/services/analysis"
)

// StartScheduler begins the daily collect-and-analyze run if scheduling is
// enabled. Safe to call when disabled; it just logs and returns.
func (a *App) StartScheduler() error {
	if !a.Config.Schedule.Enabled {
		a.Logger.Info().Msg("Scheduler disabled")
		return nil
	}

	a.scheduler = cron.New()
	_, err := a.scheduler.AddFunc(a.Config.Schedule.Cron, a.runScheduledAnalysis)
	if err != nil {
		return err
	}

	a.scheduler.Start()
	a.Logger.Info().Str("cron", a.Config.Schedule.Cron).Msg("Scheduler started")
	return nil
}

// StopScheduler stops the cron scheduler and waits for a running job.
func (a *App) StopScheduler() {
	if a.scheduler != nil {
		ctx := a.scheduler.Stop()
		<-ctx.Done()
		a.scheduler = nil
	}
}

// runScheduledAnalysis is one scheduled run: collect fresh news, then
// generate the day's report. A day with no news is a skip, not a failure.
func (a *App) runScheduledAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Pipeline.GetTimeout())
	defer cancel()

	saved, err := a.NewsService.CollectNews(ctx, a.Config.Pipeline.NewsQuery, a.Config.Pipeline.NewsLimit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("Scheduled news collection failed")
		return
	}
	a.Logger.Info().Int("saved", saved).Msg("Scheduled news collection complete")

	rep, err := a.ReportService.GenerateReport(ctx, time.Now().UTC(), interfaces.ReportOptions{})
	if err != nil {
		if errors.Is(err, analysis.ErrNoNews) {
			a.Logger.Info().Msg("No news for today, report skipped")
			return
		}
		a.Logger.Error().Err(err).Msg("Scheduled report generation failed")
		return
	}
	a.Logger.Info().Str("id", rep.ID).Str("date", rep.AnalysisDate).Msg("Scheduled report generated")
}
