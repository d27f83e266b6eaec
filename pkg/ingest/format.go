package ingest

import (
	"math"
	"strconv"
)

// DefaultMaxFileSize is the default per-file size ceiling (10 MB). It is a
// policy value, not a format limit; deployments override it via
// WithMaxFileSize or the MAX_UPLOAD_BYTES environment variable.
const DefaultMaxFileSize int64 = 10 << 20

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders a byte count as a human-readable string using binary
// (base-1024) units with at most two decimal places.
func FormatBytes(size int64) string {
	if size == 0 {
		return "0 Bytes"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[unit]
}

// WithinSizeLimit reports whether size fits under the given ceiling.
// A ceiling <= 0 means the default ceiling.
func WithinSizeLimit(size int64, limit int64) bool {
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	return size <= limit
}
