// Package timefmt resolves user-declared date-time formats into concrete
// parsing rules and renders parsed instants into the canonical display
// representation.
//
// A declared format is always a string: either one of the recognized epoch
// tags, or a display pattern written in day.js-style tokens. Patterns are
// resolved by rendering a fixed reference instant through the pattern's
// tokens; because the reference instant is Go's layout reference time, the
// rendered text is directly usable as a Go time layout for parsing rows.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Recognized epoch tags. The single-digit values are the tags an older
// query schema stored; both spellings are accepted.
const (
	TagUnixSeconds = "unix_seconds"
	TagUnixMillis  = "unix_millis"

	legacyTagSeconds = "1"
	legacyTagMillis  = "2"
)

// DisplayLayout is the canonical layout every normalized date-time value is
// rendered into.
const DisplayLayout = "2006-01-02 15:04:05"

// Kind discriminates the format variants. Every switch over Kind must be
// exhaustive; adding a variant means handling it at each consumption site.
type Kind int

const (
	KindUnixSeconds Kind = iota
	KindUnixMillis
	KindPattern
)

// Spec is a parsed format declaration.
type Spec struct {
	Kind    Kind
	Pattern string // set only for KindPattern
}

// ParseSpec classifies a declared format string.
func ParseSpec(format string) Spec {
	switch format {
	case TagUnixSeconds, legacyTagSeconds:
		return Spec{Kind: KindUnixSeconds}
	case TagUnixMillis, legacyTagMillis:
		return Spec{Kind: KindUnixMillis}
	default:
		return Spec{Kind: KindPattern, Pattern: format}
	}
}

// Concrete is a resolved parsing rule. For KindPattern, Layout holds the Go
// layout derived from the pattern; an empty Layout means the pattern could
// not be resolved and the field passes through raw.
type Concrete struct {
	Kind   Kind
	Layout string
}

// Resolved reports whether the rule can parse values at all.
func (c Concrete) Resolved() bool {
	switch c.Kind {
	case KindUnixSeconds, KindUnixMillis:
		return true
	case KindPattern:
		return c.Layout != ""
	}
	return false
}

// Resolve turns a Spec into a Concrete rule. Pattern resolution happens here,
// once per request per field — never per row. An unresolvable pattern yields
// an unresolved Concrete rather than an error: the field degrades to raw
// passthrough instead of failing the request.
func Resolve(spec Spec) Concrete {
	switch spec.Kind {
	case KindUnixSeconds, KindUnixMillis:
		return Concrete{Kind: spec.Kind}
	case KindPattern:
		layout := RenderReference(spec.Pattern)
		if strings.TrimSpace(layout) == "" {
			return Concrete{Kind: KindPattern}
		}
		// The rendered reference text must round-trip through itself: if the
		// layout cannot parse its own rendering it would misparse every row.
		if _, err := time.Parse(layout, layout); err != nil {
			return Concrete{Kind: KindPattern}
		}
		return Concrete{Kind: KindPattern, Layout: layout}
	}
	return Concrete{}
}

// ParseString parses a raw string attribute under this rule.
func (c Concrete) ParseString(s string) (time.Time, bool) {
	switch c.Kind {
	case KindUnixSeconds, KindUnixMillis:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return c.fromEpoch(n), true
	case KindPattern:
		if !c.Resolved() {
			return time.Time{}, false
		}
		t, err := time.Parse(c.Layout, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// ParseInt parses a raw integer attribute under this rule. Only the epoch
// kinds accept numbers; a number under a pattern rule is a mismatch.
func (c Concrete) ParseInt(n int64) (time.Time, bool) {
	switch c.Kind {
	case KindUnixSeconds, KindUnixMillis:
		return c.fromEpoch(n), true
	case KindPattern:
		return time.Time{}, false
	}
	return time.Time{}, false
}

func (c Concrete) fromEpoch(n int64) time.Time {
	if c.Kind == KindUnixMillis {
		return time.Unix(n/1000, (n%1000)*int64(time.Millisecond))
	}
	return time.Unix(n, 0)
}

// Display renders an instant in the canonical layout in the given zone.
func Display(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// The reference instant: 2006-01-02T15:04:05.999 in America/Edmonton
// (UTC−7). It exists solely to disambiguate pattern tokens — rendering it
// through a pattern produces the concrete layout, since its fields spell
// out Go's reference time.
const referenceUnixMillis = 1136239445999

var referenceTime = func() time.Time {
	loc, err := time.LoadLocation("America/Edmonton")
	if err != nil {
		loc = time.FixedZone("MST", -7*60*60)
	}
	return time.UnixMilli(referenceUnixMillis).In(loc)
}()

// patternTokens maps day.js-style tokens to the Go layout atom used to render
// the reference instant. Ordered longest-first so matching is greedy.
var patternTokens = []struct {
	token string
	atom  string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"SSS", ""}, // milliseconds, rendered without the leading dot
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"ZZ", "-0700"},
	{"M", "1"},
	{"D", "2"},
	{"H", ""}, // 24-hour without padding; the reference hour needs no pad
	{"h", "3"},
	{"m", "4"},
	{"s", "5"},
	{"A", "PM"},
	{"a", "pm"},
	{"Z", "-07:00"},
	{"z", "MST"},
}

// RenderReference renders the reference instant through a day.js-style
// pattern. Bracketed text ([...]) is emitted verbatim; unknown characters
// pass through unchanged. The result is the Go layout the pattern denotes.
func RenderReference(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			if j := strings.IndexByte(pattern[i:], ']'); j >= 0 {
				b.WriteString(pattern[i+1 : i+j])
				i += j + 1
				continue
			}
		}
		matched := false
		for _, t := range patternTokens {
			if strings.HasPrefix(pattern[i:], t.token) {
				b.WriteString(renderToken(t.token, t.atom))
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

func renderToken(token, atom string) string {
	switch token {
	case "SSS":
		return fmt.Sprintf("%03d", referenceTime.Nanosecond()/int(time.Millisecond))
	case "H":
		return strconv.Itoa(referenceTime.Hour())
	default:
		return referenceTime.Format(atom)
	}
}
