package env

import (
	"os"
	"strings"
)

const prefix = "MOVIESTORE_"

// Get returns the prefixed variable, then the bare variable, then fallback.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(prefix + key)); val != "" {
		return val
	}
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
