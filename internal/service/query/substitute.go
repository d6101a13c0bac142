package query

import (
	"strconv"
	"strings"

	"dynasource/internal/domain"
)

// Time range placeholders recognized inside query text. Both expand to unix
// epoch seconds, truncated toward zero.
const (
	placeholderFrom = "$__from"
	placeholderTo   = "$__to"
)

// SubstituteTimeRange expands every occurrence of the time range placeholders
// in the statement text. Purely textual: no parsing, no quoting awareness.
// Text without placeholders passes through unchanged, which also makes the
// substitution idempotent — expanded values contain no placeholder.
func SubstituteTimeRange(text string, tr domain.TimeRange) string {
	text = strings.ReplaceAll(text, placeholderFrom, strconv.FormatInt(tr.From.Unix(), 10))
	text = strings.ReplaceAll(text, placeholderTo, strconv.FormatInt(tr.To.Unix(), 10))
	return text
}
