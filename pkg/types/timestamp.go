package types

import "time"

// FormatTimestamp renders t as RFC3339 in UTC with second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// FormatOptionalTimestamp is FormatTimestamp for nullable columns.
func FormatOptionalTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}
