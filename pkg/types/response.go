package types

// APIError is the body of every non-2xx JSON response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatusResponse is the acknowledgement body returned to webhook senders.
type StatusResponse struct {
	Status string `json:"status"`
}
