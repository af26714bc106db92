package applewebhook

// Outcome classifies the result of ingesting a single notification.
type Outcome string

const (
	OutcomeProcessed        Outcome = "processed"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeInvalidEventType Outcome = "invalid_event_type"
	OutcomeInvalid          Outcome = "invalid"
	OutcomeStoreFailure     Outcome = "store_failure"
)

func (o Outcome) String() string {
	return string(o)
}

// Acknowledged reports whether the sender should consider the notification
// delivered. Duplicates are acknowledged like first deliveries.
func (o Outcome) Acknowledged() bool {
	return o == OutcomeProcessed || o == OutcomeAlreadyProcessed
}
