package enums

import "fmt"

// SubscriptionStatus is the lifecycle state of a store subscription.
type SubscriptionStatus string

const (
	// SubscriptionStatusPending marks a client-reported purchase awaiting platform confirmation.
	SubscriptionStatusPending SubscriptionStatus = "pending"
	// SubscriptionStatusActive marks a purchase confirmed by a PURCHASE or RENEW notification.
	SubscriptionStatusActive SubscriptionStatus = "active"
	// SubscriptionStatusCancelled keeps access until expires_date.
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

var validSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusPending,
	SubscriptionStatusActive,
	SubscriptionStatusCancelled,
}

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SubscriptionStatus) IsValid() bool {
	for _, candidate := range validSubscriptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubscriptionStatus converts raw input into a SubscriptionStatus.
func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	for _, candidate := range validSubscriptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription status %q", value)
}
