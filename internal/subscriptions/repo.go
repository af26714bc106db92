package subscriptions

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/samansa/movie-store/internal/repo"
	"github.com/samansa/movie-store/pkg/db"
	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
)

// ErrDuplicateTransaction is returned by Create when transaction_id is taken.
var ErrDuplicateTransaction = errors.New("subscription transaction_id already exists")

// Postgres reports the index name, sqlite the table.column pair.
var transactionIDConstraints = []string{
	"idx_subscriptions_transaction_id",
	"subscriptions.transaction_id",
}

// Repository persists subscriptions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub *models.Subscription) error
	Save(ctx context.Context, sub *models.Subscription) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Subscription, error)
	CountViewable(ctx context.Context, now time.Time) (int64, error)
	CountGraceExpired(ctx context.Context, now time.Time) (int64, error)
	CountStalePending(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	base repo.Base
}

// NewRepository returns a subscription repository bound to conn.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.Bind(tx)}
}

func (r *repository) Create(ctx context.Context, sub *models.Subscription) error {
	err := r.base.DB(ctx).Create(sub).Error
	if err != nil && isTransactionIDConflict(err) {
		return ErrDuplicateTransaction
	}
	return err
}

func (r *repository) Save(ctx context.Context, sub *models.Subscription) error {
	return r.base.DB(ctx).Save(sub).Error
}

// FindByTransactionID returns nil without error when no row matches.
func (r *repository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.base.DB(ctx).Where("transaction_id = ?", transactionID).Take(&sub).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID string) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	if err := r.base.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// CountViewable counts active subscriptions plus cancelled ones still in grace.
func (r *repository) CountViewable(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.base.DB(ctx).Model(&models.Subscription{}).
		Where("status = ?", enums.SubscriptionStatusActive).
		Or("status = ? AND expires_date > ?", enums.SubscriptionStatusCancelled, now).
		Count(&n).Error
	return n, err
}

func (r *repository) CountGraceExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.base.DB(ctx).Model(&models.Subscription{}).
		Where("status = ? AND (expires_date IS NULL OR expires_date <= ?)", enums.SubscriptionStatusCancelled, now).
		Count(&n).Error
	return n, err
}

func (r *repository) CountStalePending(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.base.DB(ctx).Model(&models.Subscription{}).
		Where("status = ? AND created_at < ?", enums.SubscriptionStatusPending, before).
		Count(&n).Error
	return n, err
}

func isTransactionIDConflict(err error) bool {
	for _, name := range transactionIDConstraints {
		if db.IsUniqueViolation(err, name) {
			return true
		}
	}
	return false
}
