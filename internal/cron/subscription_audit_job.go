package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/samansa/movie-store/pkg/logger"
	"github.com/samansa/movie-store/pkg/metrics"
)

const defaultStalePendingAfter = 24 * time.Hour

type auditRepository interface {
	CountViewable(ctx context.Context, now time.Time) (int64, error)
	CountGraceExpired(ctx context.Context, now time.Time) (int64, error)
	CountStalePending(ctx context.Context, before time.Time) (int64, error)
}

// SubscriptionAuditJobParams configures the read-only subscription audit.
type SubscriptionAuditJobParams struct {
	Logger            *logger.Logger
	Repo              auditRepository
	Metrics           *metrics.SubscriptionAuditMetrics
	StalePendingAfter time.Duration
	Now               func() time.Time
}

// NewSubscriptionAuditJob builds a job that reports pending purchases the
// platform never confirmed and cancelled subscriptions past their grace
// period. It never mutates subscriptions.
func NewSubscriptionAuditJob(params SubscriptionAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	staleAfter := params.StalePendingAfter
	if staleAfter <= 0 {
		staleAfter = defaultStalePendingAfter
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &subscriptionAuditJob{
		logg:       params.Logger,
		repo:       params.Repo,
		metrics:    params.Metrics,
		staleAfter: staleAfter,
		now:        now,
	}, nil
}

type subscriptionAuditJob struct {
	logg       *logger.Logger
	repo       auditRepository
	metrics    *metrics.SubscriptionAuditMetrics
	staleAfter time.Duration
	now        func() time.Time
}

// AuditSnapshot is the result of one audit pass.
type AuditSnapshot struct {
	Viewable     int64
	GraceExpired int64
	StalePending int64
}

func (j *subscriptionAuditJob) Name() string { return "subscription-audit" }

func (j *subscriptionAuditJob) Run(ctx context.Context) error {
	_, err := j.audit(ctx)
	return err
}

func (j *subscriptionAuditJob) audit(ctx context.Context) (AuditSnapshot, error) {
	now := j.now().UTC()
	var (
		snapshot AuditSnapshot
		errs     error
		err      error
	)

	if snapshot.Viewable, err = j.repo.CountViewable(ctx, now); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count viewable: %w", err))
	} else {
		j.metrics.SetViewable(snapshot.Viewable)
	}
	if snapshot.GraceExpired, err = j.repo.CountGraceExpired(ctx, now); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count grace expired: %w", err))
	} else {
		j.metrics.SetGraceExpired(snapshot.GraceExpired)
	}
	if snapshot.StalePending, err = j.repo.CountStalePending(ctx, now.Add(-j.staleAfter)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count stale pending: %w", err))
	} else {
		j.metrics.SetStalePending(snapshot.StalePending)
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"viewable":      snapshot.Viewable,
		"grace_expired": snapshot.GraceExpired,
		"stale_pending": snapshot.StalePending,
		"stale_after":   j.staleAfter.String(),
	})
	if snapshot.StalePending > 0 {
		j.logg.Warn(reportCtx, "subscription.audit.stale_pending")
	} else {
		j.logg.Info(reportCtx, "subscription.audit.complete")
	}
	return snapshot, errs
}
