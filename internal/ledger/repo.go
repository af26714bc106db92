package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/samansa/movie-store/internal/repo"
	"github.com/samansa/movie-store/pkg/db"
	"github.com/samansa/movie-store/pkg/db/models"
)

// ErrDuplicateNotification is returned by Create when the notification_uuid
// has already been recorded.
var ErrDuplicateNotification = errors.New("notification already recorded")

// Postgres reports the index name, sqlite the table.column pair.
var notificationConstraints = []string{
	"idx_subscription_events_notification_uuid",
	"subscription_events.notification_uuid",
}

// Repository manages persistence for subscription ledger events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.SubscriptionEvent) error
	FindByNotificationUUID(ctx context.Context, notificationUUID string) (*models.SubscriptionEvent, error)
	ListByTransactionID(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error)
}

type repository struct {
	base repo.Base
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.Bind(tx)}
}

func (r *repository) Create(ctx context.Context, event *models.SubscriptionEvent) error {
	err := r.base.DB(ctx).Create(event).Error
	if err != nil && isNotificationConflict(err) {
		return ErrDuplicateNotification
	}
	return err
}

// FindByNotificationUUID returns nil without error when nothing was recorded.
func (r *repository) FindByNotificationUUID(ctx context.Context, notificationUUID string) (*models.SubscriptionEvent, error) {
	var event models.SubscriptionEvent
	err := r.base.DB(ctx).Where("notification_uuid = ?", notificationUUID).Take(&event).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListByTransactionID(ctx context.Context, transactionID string) ([]models.SubscriptionEvent, error) {
	events := []models.SubscriptionEvent{}
	if err := r.base.DB(ctx).
		Where("transaction_id = ?", transactionID).
		Order("processed_at ASC").
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func isNotificationConflict(err error) bool {
	for _, name := range notificationConstraints {
		if db.IsUniqueViolation(err, name) {
			return true
		}
	}
	return false
}
