// Package timeparse is the external timestamp-string-to-instant collaborator
// the core tokenizer and type detector delegate to. It is a pure function
// with no knowledge of tokens or patterns.
package timeparse

import (
	"strconv"
	"strings"
	"time"
)

// layouts are tried in order; the first one that parses the whole (trimmed)
// string wins. Grounded on the accepted formats of the system this module
// replaces: ISO 8601 (with/without zone, with fractional seconds), Apache
// Common Log Format, syslog, and a bare date.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"02/Jan/2006:15:04:05 -0700",
	"Jan _2 15:04:05",
	"01/02/2006 15:04:05",
	"02-01-2006 15:04:05",
	"Jan 2, 2006 15:04:05",
	"2006-01-02",
}

// epochLower/epochUpper bound the range of Unix timestamps (seconds) that
// is_likely_timestamp treats as plausible, so that an arbitrary small
// integer like "12345" isn't misread as an epoch.
const (
	epochLower = 1_000_000_000  // 2001-09-09
	epochUpper = 10_000_000_000 // 2286-11-20
)

// ParseTimestamp attempts to parse s as a timestamp in any of the supported
// formats, returning the parsed instant and true on success. It never
// panics and never returns an error; an unparseable string is reported via
// the boolean, matching the "clean miss" contract of the system this
// replaces.
func ParseTimestamp(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}

	if ts, ok := parseEpoch(trimmed); ok {
		return ts, true
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseEpoch(s string) (time.Time, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	switch {
	case n >= epochLower && n <= epochUpper:
		return time.Unix(n, 0).UTC(), true
	case n >= epochLower*1000 && n <= epochUpper*1000:
		return time.UnixMilli(n).UTC(), true
	default:
		return time.Time{}, false
	}
}

// IsLikelyTimestamp reports whether s parses as a timestamp under
// ParseTimestamp. It exists as a separate name because callers (the
// tokenizer's timestamp recognizer) only need the boolean and not the value.
func IsLikelyTimestamp(s string) bool {
	_, ok := ParseTimestamp(s)
	return ok
}

// NormalizeTimestamp renders t as RFC 3339 in UTC, defaulting a missing zone
// to UTC rather than the local offset.
func NormalizeTimestamp(t time.Time) string {
	if t.Location() == time.Local {
		// A time in Local is read as bare wall-clock time: keep its clock
		// fields and label them UTC rather than applying the host's offset.
		// (time.Parse, used by ParseTimestamp, already returns UTC when the
		// input has no zone.)
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC().Format(time.RFC3339)
}
