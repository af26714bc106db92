package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/samansa/movie-store/internal/subscriptions"
	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
	"github.com/samansa/movie-store/pkg/metrics"
)

type stubAuditRepo struct {
	viewable, graceExpired, stalePending int64
	viewableErr, graceErr, staleErr      error
	staleBefore                          time.Time
}

func (s *stubAuditRepo) CountViewable(context.Context, time.Time) (int64, error) {
	return s.viewable, s.viewableErr
}

func (s *stubAuditRepo) CountGraceExpired(context.Context, time.Time) (int64, error) {
	return s.graceExpired, s.graceErr
}

func (s *stubAuditRepo) CountStalePending(_ context.Context, before time.Time) (int64, error) {
	s.staleBefore = before
	return s.stalePending, s.staleErr
}

func TestNewSubscriptionAuditJobValidation(t *testing.T) {
	_, err := NewSubscriptionAuditJob(SubscriptionAuditJobParams{Repo: &stubAuditRepo{}})
	assert.Error(t, err)
	_, err = NewSubscriptionAuditJob(SubscriptionAuditJobParams{Logger: testLogger()})
	assert.Error(t, err)
}

func TestSubscriptionAuditJobSetsGauges(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	repo := &stubAuditRepo{viewable: 10, graceExpired: 3, stalePending: 2}
	reg := prometheus.NewRegistry()
	job, err := NewSubscriptionAuditJob(SubscriptionAuditJobParams{
		Logger:            testLogger(),
		Repo:              repo,
		Metrics:           metrics.NewSubscriptionAuditMetrics(reg),
		StalePendingAfter: 6 * time.Hour,
		Now:               func() time.Time { return now },
	})
	require.NoError(t, err)
	assert.Equal(t, "subscription-audit", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.True(t, repo.staleBefore.Equal(now.Add(-6*time.Hour)))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	gauges := map[string]float64{}
	for _, mf := range mfs {
		gauges[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
	}
	assert.Equal(t, float64(10), gauges["subscriptions_viewable"])
	assert.Equal(t, float64(3), gauges["subscriptions_grace_expired"])
	assert.Equal(t, float64(2), gauges["subscriptions_stale_pending"])
}

func TestSubscriptionAuditJobAggregatesErrors(t *testing.T) {
	repo := &stubAuditRepo{viewableErr: errors.New("timeout"), staleErr: errors.New("reset"), graceExpired: 1}
	job, err := NewSubscriptionAuditJob(SubscriptionAuditJobParams{Logger: testLogger(), Repo: repo})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, repo.viewableErr)
	assert.ErrorIs(t, err, repo.staleErr)
}

func TestSubscriptionAuditJobAgainstRepository(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", "cron_audit_repo")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Subscription{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)
	repo := subscriptions.NewRepository(conn)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Subscription{UserID: "u", TransactionID: "t1", ProductID: "p", Status: enums.SubscriptionStatusPending, CreatedAt: now.Add(-72 * time.Hour), UpdatedAt: now}))
	require.NoError(t, repo.Create(ctx, &models.Subscription{UserID: "u", TransactionID: "t2", ProductID: "p", Status: enums.SubscriptionStatusActive, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repo.Create(ctx, &models.Subscription{UserID: "u", TransactionID: "t3", ProductID: "p", Status: enums.SubscriptionStatusCancelled, ExpiresDate: &expired, CreatedAt: now, UpdatedAt: now}))

	job, err := NewSubscriptionAuditJob(SubscriptionAuditJobParams{
		Logger: testLogger(),
		Repo:   repo,
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	snapshot, err := job.(*subscriptionAuditJob).audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, AuditSnapshot{Viewable: 1, GraceExpired: 1, StalePending: 1}, snapshot)
}
