// Package orchestrator drives one pass over the configured job list:
// run each enabled job in order, record its result, alert on failure.
// Only a broken config aborts a pass; everything else is contained to
// the job it happened in.
package orchestrator

import (
	"context"
	"mirrorsync/internal/config"
	"mirrorsync/internal/logger"
	"mirrorsync/internal/model"
	"mirrorsync/internal/notify"
	"mirrorsync/internal/store"
	"time"

	"go.uber.org/zap"
)

type JobRunner interface {
	Run(ctx context.Context, job config.SyncJob) model.RunResult
}

// HistoryWriter appends results to the audit database. Optional.
type HistoryWriter interface {
	Save(result model.RunResult) error
}

type Orchestrator struct {
	cfg      *config.Config
	runner   JobRunner
	store    *store.Store
	notifier notify.Notifier
	history  HistoryWriter
}

func New(cfg *config.Config, runner JobRunner, st *store.Store, notifier notify.Notifier, history HistoryWriter) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		runner:   runner,
		store:    st,
		notifier: notifier,
		history:  history,
	}
}

// RunPass executes every enabled job sequentially, in declared order.
// Each result is persisted as soon as the job finishes, not batched at
// the end, so an interrupted pass keeps everything up to the current job.
func (o *Orchestrator) RunPass(ctx context.Context) model.PassSummary {
	summary := model.PassSummary{StartedAt: time.Now()}

	logger.Log.Info("starting sync pass",
		zap.Int("jobs", len(o.cfg.SyncJobs)))

	for _, job := range o.cfg.SyncJobs {
		if !job.IsEnabled() {
			logger.Log.Info("skipping disabled job",
				zap.String("job", job.Name))
			summary.Skipped++
			continue
		}

		result := o.runner.Run(ctx, job)
		summary.Attempted++

		if result.Failed() {
			summary.Failed++
		} else {
			summary.Succeeded++
		}

		if err := o.store.Record(result); err != nil {
			// The result is lost but the pass keeps going.
			logger.Log.Error("failed to record result",
				zap.String("job", job.Name),
				zap.Error(err))
		}

		if o.history != nil {
			if err := o.history.Save(result); err != nil {
				logger.Log.Warn("failed to save history",
					zap.String("job", job.Name),
					zap.Error(err))
			}
		}

		if result.Failed() {
			if err := o.notifier.Notify(result); err != nil {
				logger.Log.Warn("failed to send failure notification",
					zap.String("job", job.Name),
					zap.Error(err))
			}
		}
	}

	summary.Duration = time.Since(summary.StartedAt)

	if err := o.store.FinishPass(summary); err != nil {
		logger.Log.Error("failed to record pass summary",
			zap.Error(err))
	}

	logger.Log.Info("sync pass completed",
		zap.Duration("duration", summary.Duration),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))

	return summary
}
