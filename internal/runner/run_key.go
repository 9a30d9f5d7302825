package runner

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	runKeyLayout    = "20060102T150405Z"
	runKeySuffixLen = 12
)

// NewRunKey names a run's output directory. Keys sort by start time.
func NewRunKey(now time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return FormatRunID(now, hex[:runKeySuffixLen])
}

// FormatRunID renders the UTC start time followed by suffix.
func FormatRunID(now time.Time, suffix string) string {
	var b strings.Builder
	b.WriteString(now.UTC().Format(runKeyLayout))
	b.WriteByte('-')
	b.WriteString(suffix)
	return b.String()
}
