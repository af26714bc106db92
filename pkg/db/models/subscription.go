package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/samansa/movie-store/pkg/enums"
)

// Subscription persists the platform purchase state keyed by transaction id.
type Subscription struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID        string                   `gorm:"column:user_id;not null;index;index:idx_subscriptions_user_id_status,priority:1"`
	TransactionID string                   `gorm:"column:transaction_id;not null;uniqueIndex:idx_subscriptions_transaction_id"`
	ProductID     string                   `gorm:"column:product_id;not null"`
	Status        enums.SubscriptionStatus `gorm:"column:status;not null;default:'pending';index:idx_subscriptions_user_id_status,priority:2"`
	PurchaseDate  *time.Time               `gorm:"column:purchase_date"`
	ExpiresDate   *time.Time               `gorm:"column:expires_date;index"`
	Amount        decimal.NullDecimal      `gorm:"column:amount;type:decimal(10,2)"`
	Currency      *string                  `gorm:"column:currency"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the surrogate id when the caller left it empty.
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Viewable reports whether the subscription grants access at now. Cancelled
// subscriptions stay viewable until expires_date.
func (s *Subscription) Viewable(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case enums.SubscriptionStatusActive:
		return true
	case enums.SubscriptionStatusCancelled:
		return s.ExpiresDate != nil && s.ExpiresDate.After(now)
	default:
		return false
	}
}
