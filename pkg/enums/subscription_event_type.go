package enums

import "fmt"

// SubscriptionEventType is the lifecycle notification type sent by the platform.
type SubscriptionEventType string

const (
	SubscriptionEventTypePurchase SubscriptionEventType = "PURCHASE"
	SubscriptionEventTypeRenew    SubscriptionEventType = "RENEW"
	SubscriptionEventTypeCancel   SubscriptionEventType = "CANCEL"
)

var validSubscriptionEventTypes = []SubscriptionEventType{
	SubscriptionEventTypePurchase,
	SubscriptionEventTypeRenew,
	SubscriptionEventTypeCancel,
}

// String implements fmt.Stringer.
func (t SubscriptionEventType) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known notification type.
func (t SubscriptionEventType) IsValid() bool {
	for _, candidate := range validSubscriptionEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSubscriptionEventType converts raw input into SubscriptionEventType.
func ParseSubscriptionEventType(value string) (SubscriptionEventType, error) {
	for _, candidate := range validSubscriptionEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription event type %q", value)
}
