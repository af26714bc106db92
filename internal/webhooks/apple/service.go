package applewebhook

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/samansa/movie-store/internal/ledger"
	"github.com/samansa/movie-store/internal/subscriptions"
	"github.com/samansa/movie-store/pkg/enums"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
	"github.com/samansa/movie-store/pkg/logger"
	"github.com/samansa/movie-store/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type processedCache interface {
	Seen(ctx context.Context, notificationUUID string) (bool, error)
	Mark(ctx context.Context, notificationUUID string) error
}

// ServiceParams groups dependencies for the ingestion service. Cache,
// Metrics, Logger and Now are optional.
type ServiceParams struct {
	SubscriptionRepo  subscriptions.Repository
	LedgerRepo        ledger.Repository
	TransactionRunner txRunner
	Cache             processedCache
	Metrics           *metrics.WebhookMetrics
	Logger            *logger.Logger
	Now               func() time.Time
}

// Service records platform notifications and applies them to subscriptions
// at most once per notification_uuid.
type Service struct {
	subs     subscriptions.Repository
	ledger   ledger.Repository
	txRunner txRunner
	cache    processedCache
	metrics  *metrics.WebhookMetrics
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.SubscriptionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subscription repo required")
	}
	if params.LedgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "apple-webhook", Output: io.Discard})
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		subs:     params.SubscriptionRepo,
		ledger:   params.LedgerRepo,
		txRunner: params.TransactionRunner,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logg:     logg,
		now:      now,
	}, nil
}

// Ingest validates payload and applies it. Acknowledged outcomes return a nil
// error; every other outcome carries a typed error.
func (s *Service) Ingest(ctx context.Context, payload Payload) (Outcome, error) {
	started := time.Now()
	notification, outcome, err := payload.Notification()
	if err != nil {
		s.observe(ctx, outcome, eventTypeLabel(payload.Type), started, err)
		return outcome, err
	}

	ctx = s.logg.WithNotificationUUID(ctx, notification.NotificationUUID)
	ctx = s.logg.WithTransactionID(ctx, notification.TransactionID)
	outcome, err = s.apply(ctx, notification)
	s.observe(ctx, outcome, notification.Type.String(), started, err)
	return outcome, err
}

func (s *Service) apply(ctx context.Context, n Notification) (Outcome, error) {
	if s.cachedAsProcessed(ctx, n.NotificationUUID) {
		return OutcomeAlreadyProcessed, nil
	}

	recorded, err := s.ledger.FindByNotificationUUID(ctx, n.NotificationUUID)
	if err != nil {
		return OutcomeStoreFailure, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup notification")
	}
	if recorded != nil {
		s.markProcessed(ctx, n.NotificationUUID)
		return OutcomeAlreadyProcessed, nil
	}

	sub, err := s.subs.FindByTransactionID(ctx, n.TransactionID)
	if err != nil {
		return OutcomeStoreFailure, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if sub == nil {
		return OutcomeNotFound, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found").
			WithDetails(map[string]any{"transaction_id": n.TransactionID})
	}

	event := n.Event(s.now().UTC())
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.WithTx(tx).Create(ctx, event); err != nil {
			return err
		}
		if err := subscriptions.Apply(sub, event); err != nil {
			return err
		}
		return s.subs.WithTx(tx).Save(ctx, sub)
	})
	switch {
	case err == nil:
		s.markProcessed(ctx, n.NotificationUUID)
		return OutcomeProcessed, nil
	case errors.Is(err, ledger.ErrDuplicateNotification):
		s.markProcessed(ctx, n.NotificationUUID)
		return OutcomeAlreadyProcessed, nil
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return OutcomeInvalidEventType, err
	default:
		return OutcomeStoreFailure, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record notification")
	}
}

func (s *Service) cachedAsProcessed(ctx context.Context, notificationUUID string) bool {
	if s.cache == nil {
		return false
	}
	seen, err := s.cache.Seen(ctx, notificationUUID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "webhook.cache.read_failed")
		return false
	}
	return seen
}

func (s *Service) markProcessed(ctx context.Context, notificationUUID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Mark(ctx, notificationUUID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "webhook.cache.write_failed")
	}
}

func (s *Service) observe(ctx context.Context, outcome Outcome, eventType string, started time.Time, err error) {
	elapsed := time.Since(started)
	s.metrics.Observe(outcome.String(), eventType, elapsed)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_type":  eventType,
		"outcome":     outcome.String(),
		"duration_ms": elapsed.Milliseconds(),
	})
	switch outcome {
	case OutcomeProcessed, OutcomeAlreadyProcessed:
		s.logg.Info(ctx, "webhook.ingested")
	case OutcomeStoreFailure:
		s.logg.Error(ctx, "webhook.store_failure", err)
	default:
		s.logg.Warn(s.logg.WithField(ctx, "error", errorText(err)), "webhook.rejected")
	}
}

// eventTypeLabel bounds metric cardinality for payloads that failed to parse.
func eventTypeLabel(raw string) string {
	eventType, err := enums.ParseSubscriptionEventType(strings.TrimSpace(raw))
	if err != nil {
		return "unknown"
	}
	return eventType.String()
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
