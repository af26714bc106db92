package validators

import (
	"strings"

	pkgerrors "github.com/samansa/movie-store/pkg/errors"
)

const maxIdentifierLen = 255

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// RequireIdentifier trims an opaque identifier taken from the URL and rejects
// empty or oversized values.
func RequireIdentifier(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, field+" is required").WithDetails(map[string]any{"field": field})
	}
	if len(value) > maxIdentifierLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, field+" is too long").WithDetails(map[string]any{"field": field, "max": maxIdentifierLen})
	}
	return value, nil
}
