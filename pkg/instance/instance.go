package instance

import (
	"os"
	"strings"
)

const fallbackID = "movie-store-0"

// GetID returns the process instance identifier used for lock ownership and
// log correlation. MOVIESTORE_INSTANCE_ID wins over the hostname.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv("MOVIESTORE_INSTANCE_ID")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
