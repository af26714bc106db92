package subscriptions

import (
	"fmt"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/enums"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
)

// Apply mutates sub according to the ledger event's type. PURCHASE and RENEW
// activate from any state and overwrite the period fields. CANCEL keeps the
// period fields so access lasts until expires_date. Events are not ordered:
// an older RENEW delivered late overwrites newer period values.
func Apply(sub *models.Subscription, event *models.SubscriptionEvent) error {
	if sub == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "subscription is required")
	}
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "event is required")
	}

	switch event.EventType {
	case enums.SubscriptionEventTypePurchase, enums.SubscriptionEventTypeRenew:
		sub.Status = enums.SubscriptionStatusActive
		sub.PurchaseDate = event.PurchaseDate
		sub.ExpiresDate = event.ExpiresDate
		sub.Amount = event.Amount
		sub.Currency = event.Currency
	case enums.SubscriptionEventTypeCancel:
		sub.Status = enums.SubscriptionStatusCancelled
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported event type %q", event.EventType))
	}
	return nil
}
