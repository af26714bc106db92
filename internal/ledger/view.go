package ledger

import (
	"github.com/google/uuid"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/types"
)

// EventView is the audit representation of a ledger entry.
type EventView struct {
	ID               uuid.UUID `json:"id"`
	NotificationUUID string    `json:"notification_uuid"`
	TransactionID    string    `json:"transaction_id"`
	EventType        string    `json:"event_type"`
	ProductID        *string   `json:"product_id"`
	Amount           *string   `json:"amount"`
	Currency         *string   `json:"currency"`
	PurchaseDate     *string   `json:"purchase_date"`
	ExpiresDate      *string   `json:"expires_date"`
	ProcessedAt      string    `json:"processed_at"`
}

// TransactionEvents is the list response for a single transaction.
type TransactionEvents struct {
	TransactionID string      `json:"transaction_id"`
	Events        []EventView `json:"events"`
}

func NewTransactionEvents(transactionID string, events []models.SubscriptionEvent) TransactionEvents {
	views := make([]EventView, 0, len(events))
	for i := range events {
		views = append(views, newEventView(&events[i]))
	}
	return TransactionEvents{TransactionID: transactionID, Events: views}
}

func newEventView(e *models.SubscriptionEvent) EventView {
	view := EventView{
		ID:               e.ID,
		NotificationUUID: e.NotificationUUID,
		TransactionID:    e.TransactionID,
		EventType:        e.EventType.String(),
		ProductID:        e.ProductID,
		Currency:         e.Currency,
		PurchaseDate:     types.FormatOptionalTimestamp(e.PurchaseDate),
		ExpiresDate:      types.FormatOptionalTimestamp(e.ExpiresDate),
		ProcessedAt:      types.FormatTimestamp(e.ProcessedAt),
	}
	if e.Amount.Valid {
		amount := e.Amount.Decimal.StringFixed(2)
		view.Amount = &amount
	}
	return view
}
