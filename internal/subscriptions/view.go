package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/samansa/movie-store/pkg/db/models"
	"github.com/samansa/movie-store/pkg/types"
)

// View is the JSON representation returned to clients.
type View struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	Status        string    `json:"status"`
	Viewable      bool      `json:"viewable"`
	PurchaseDate  *string   `json:"purchase_date"`
	ExpiresDate   *string   `json:"expires_date"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

// UserSubscriptions is the list response for a single user.
type UserSubscriptions struct {
	UserID        string `json:"user_id"`
	Subscriptions []View `json:"subscriptions"`
}

// NewView serializes sub with viewable evaluated at now.
func NewView(sub *models.Subscription, now time.Time) View {
	return View{
		ID:            sub.ID,
		UserID:        sub.UserID,
		TransactionID: sub.TransactionID,
		ProductID:     sub.ProductID,
		Status:        sub.Status.String(),
		Viewable:      sub.Viewable(now),
		PurchaseDate:  types.FormatOptionalTimestamp(sub.PurchaseDate),
		ExpiresDate:   types.FormatOptionalTimestamp(sub.ExpiresDate),
		CreatedAt:     types.FormatTimestamp(sub.CreatedAt),
		UpdatedAt:     types.FormatTimestamp(sub.UpdatedAt),
	}
}

// NewUserSubscriptions serializes a user's list, preserving order.
func NewUserSubscriptions(userID string, subs []models.Subscription, now time.Time) UserSubscriptions {
	views := make([]View, 0, len(subs))
	for i := range subs {
		views = append(views, NewView(&subs[i], now))
	}
	return UserSubscriptions{UserID: userID, Subscriptions: views}
}
