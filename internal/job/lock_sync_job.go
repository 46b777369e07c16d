package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TemplateStore is the part of the template repository the job needs
type TemplateStore interface {
	LockTemplatesWithIssues(ctx context.Context) (int64, error)
	Counts(ctx context.Context) (total, locked int64, err error)
}

// IssueCounter counts every issue
type IssueCounter interface {
	Count(ctx context.Context) (int64, error)
}

// CacheInvalidator drops every cached template snapshot
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// GaugeRecorder receives the counts gathered by the job
type GaugeRecorder interface {
	SetTemplateCounts(total, locked int64)
	SetIssuesTotal(count int64)
}

// LockSyncJob locks templates that gained issues without being locked (rows
// written by another service or a restored backup) and refreshes the
// template and issue gauges
type LockSyncJob struct {
	templates TemplateStore
	issues    IssueCounter
	cache     CacheInvalidator
	gauges    GaugeRecorder
	logger    *zap.Logger
	timeout   time.Duration
}

// NewLockSyncJob creates a new LockSyncJob instance. gauges may be nil.
func NewLockSyncJob(templates TemplateStore, issues IssueCounter, cache CacheInvalidator, gauges GaugeRecorder, logger *zap.Logger) *LockSyncJob {
	return &LockSyncJob{
		templates: templates,
		issues:    issues,
		cache:     cache,
		gauges:    gauges,
		logger:    logger,
		timeout:   time.Minute,
	}
}

// Run executes the job once. It satisfies cron.Job.
func (j *LockSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	locked, err := j.templates.LockTemplatesWithIssues(ctx)
	if err != nil {
		j.logger.Error("Failed to lock templates with issues", zap.Error(err))
		return
	}
	if locked > 0 {
		j.logger.Info("Locked templates with issues", zap.Int64("count", locked))
		// the cached snapshots still say unlocked
		if err := j.cache.InvalidateAll(ctx); err != nil {
			j.logger.Warn("Failed to invalidate snapshot cache", zap.Error(err))
		}
	}

	if j.gauges == nil {
		return
	}
	total, lockedTotal, err := j.templates.Counts(ctx)
	if err != nil {
		j.logger.Error("Failed to count templates", zap.Error(err))
		return
	}
	j.gauges.SetTemplateCounts(total, lockedTotal)

	issues, err := j.issues.Count(ctx)
	if err != nil {
		j.logger.Error("Failed to count issues", zap.Error(err))
		return
	}
	j.gauges.SetIssuesTotal(issues)

	j.logger.Debug("Lock sync job completed",
		zap.Int64("templates", total),
		zap.Int64("locked_templates", lockedTotal),
		zap.Int64("issues", issues),
	)
}

// Start schedules job on a cron spec ("@every 5m", "*/10 * * * *") and runs
// it once right away. An empty spec disables the job and returns nil.
// Stop the returned scheduler on shutdown.
func Start(spec string, job cron.Job, logger *zap.Logger) (*cron.Cron, error) {
	if spec == "" {
		logger.Info("Lock sync job disabled")
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	c.Start()
	go job.Run()

	logger.Info("Lock sync job scheduled", zap.String("schedule", spec))
	return c, nil
}
