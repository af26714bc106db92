package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/samansa/movie-store/pkg/enums"
)

// SubscriptionEvent is an immutable ledger entry for an applied platform
// notification. TransactionID references a subscription by value only.
type SubscriptionEvent struct {
	ID               uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	NotificationUUID string                      `gorm:"column:notification_uuid;not null;uniqueIndex:idx_subscription_events_notification_uuid"`
	TransactionID    string                      `gorm:"column:transaction_id;not null;index"`
	EventType        enums.SubscriptionEventType `gorm:"column:event_type;not null;index"`
	ProductID        *string                     `gorm:"column:product_id"`
	Amount           decimal.NullDecimal         `gorm:"column:amount;type:decimal(10,2)"`
	Currency         *string                     `gorm:"column:currency"`
	PurchaseDate     *time.Time                  `gorm:"column:purchase_date"`
	ExpiresDate      *time.Time                  `gorm:"column:expires_date"`
	ProcessedAt      time.Time                   `gorm:"column:processed_at;not null"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime"`
}

func (e *SubscriptionEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
