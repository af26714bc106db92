package applewebhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
)

// Payload is the webhook body as sent by the platform relay. Amount accepts
// a JSON number or a decimal string.
type Payload struct {
	NotificationUUID string              `json:"notification_uuid" validate:"required"`
	Type             string              `json:"type" validate:"required"`
	TransactionID    string              `json:"transaction_id" validate:"required"`
	ProductID        *string             `json:"product_id"`
	Amount           decimal.NullDecimal `json:"amount"`
	Currency         *string             `json:"currency"`
	PurchaseDate     *string             `json:"purchase_date"`
	ExpiresDate      *string             `json:"expires_date"`
}

// Notification is a parsed platform lifecycle notification.
type Notification struct {
	NotificationUUID string
	Type             enums.SubscriptionEventType
	TransactionID    string
	ProductID        *string
	Amount           decimal.NullDecimal
	Currency         *string
	PurchaseDate     *time.Time
	ExpiresDate      *time.Time
}

// Notification parses timestamps and the event type. Unknown types are
// reported with OutcomeInvalidEventType, every other problem with
// OutcomeInvalid.
func (p Payload) Notification() (Notification, Outcome, error) {
	n := Notification{
		NotificationUUID: strings.TrimSpace(p.NotificationUUID),
		TransactionID:    strings.TrimSpace(p.TransactionID),
		ProductID:        trimmedOptional(p.ProductID),
		Amount:           p.Amount,
		Currency:         trimmedOptional(p.Currency),
	}

	var missing []string
	if n.NotificationUUID == "" {
		missing = append(missing, "notification_uuid")
	}
	if strings.TrimSpace(p.Type) == "" {
		missing = append(missing, "type")
	}
	if n.TransactionID == "" {
		missing = append(missing, "transaction_id")
	}
	if len(missing) > 0 {
		return Notification{}, OutcomeInvalid, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}

	eventType, err := enums.ParseSubscriptionEventType(strings.TrimSpace(p.Type))
	if err != nil {
		return Notification{}, OutcomeInvalidEventType, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported notification type").
			WithDetails(map[string]any{"type": p.Type})
	}
	n.Type = eventType

	if n.PurchaseDate, err = parseTimestamp("purchase_date", p.PurchaseDate); err != nil {
		return Notification{}, OutcomeInvalid, err
	}
	if n.ExpiresDate, err = parseTimestamp("expires_date", p.ExpiresDate); err != nil {
		return Notification{}, OutcomeInvalid, err
	}
	if err := n.Validate(); err != nil {
		return Notification{}, OutcomeInvalid, err
	}
	return n, "", nil
}

// Validate enforces per-type requirements: PURCHASE and RENEW start a period
// and must carry both of its bounds.
func (n Notification) Validate() error {
	if n.Type != enums.SubscriptionEventTypePurchase && n.Type != enums.SubscriptionEventTypeRenew {
		return nil
	}
	var missing []string
	if n.PurchaseDate == nil {
		missing = append(missing, "purchase_date")
	}
	if n.ExpiresDate == nil {
		missing = append(missing, "expires_date")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s requires a billing period", n.Type)).
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}

// Event builds the ledger entry recorded when the notification is applied.
func (n Notification) Event(processedAt time.Time) *models.SubscriptionEvent {
	return &models.SubscriptionEvent{
		NotificationUUID: n.NotificationUUID,
		TransactionID:    n.TransactionID,
		EventType:        n.Type,
		ProductID:        n.ProductID,
		Amount:           n.Amount,
		Currency:         n.Currency,
		PurchaseDate:     n.PurchaseDate,
		ExpiresDate:      n.ExpiresDate,
		ProcessedAt:      processedAt,
	}
}

func parseTimestamp(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s must be an ISO-8601 timestamp", field)).
			WithDetails(map[string]any{"fields": []string{field}})
	}
	t = t.UTC()
	return &t, nil
}

func trimmedOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
