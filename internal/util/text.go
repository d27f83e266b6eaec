package util

import "strings"

// SanitizeDBText strips byte sequences Postgres rejects in text columns:
// invalid UTF-8 and NUL bytes. Extracted document text regularly contains both.
func SanitizeDBText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
