package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestampISO8601(t *testing.T) {
	ts, ok := ParseTimestamp("2024-01-15T10:30:00")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 1, int(ts.Month()))
	assert.Equal(t, 15, ts.Day())
}

func TestParseTimestampWithTimezone(t *testing.T) {
	_, ok := ParseTimestamp("2024-01-15T10:30:00Z")
	assert.True(t, ok)

	_, ok = ParseTimestamp("2024-01-15T10:30:00+00:00")
	assert.True(t, ok)
}

func TestParseTimestampWithFraction(t *testing.T) {
	_, ok := ParseTimestamp("2024-01-15T10:30:00.123")
	assert.True(t, ok)

	_, ok = ParseTimestamp("2024-01-15T10:30:00.123456")
	assert.True(t, ok)
}

func TestParseTimestampApacheCLF(t *testing.T) {
	ts, ok := ParseTimestamp("15/Jan/2024:10:30:00 +0000")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 1, int(ts.Month()))
	assert.Equal(t, 15, ts.Day())
}

func TestParseTimestampSyslog(t *testing.T) {
	ts, ok := ParseTimestamp("Jan 15 10:30:00")
	assert.True(t, ok)
	assert.Equal(t, 1, int(ts.Month()))
	assert.Equal(t, 15, ts.Day())
}

func TestParseTimestampUnixEpoch(t *testing.T) {
	_, ok := ParseTimestamp("1705315800")
	assert.True(t, ok)
}

func TestParseTimestampUnixEpochMillis(t *testing.T) {
	_, ok := ParseTimestamp("1705315800000")
	assert.True(t, ok)
}

func TestParseTimestampDateOnly(t *testing.T) {
	ts, ok := ParseTimestamp("2024-01-15")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
}

func TestParseTimestampInvalid(t *testing.T) {
	_, ok := ParseTimestamp("not a timestamp")
	assert.False(t, ok)

	_, ok = ParseTimestamp("")
	assert.False(t, ok)
}

func TestIsLikelyTimestamp(t *testing.T) {
	assert.True(t, IsLikelyTimestamp("2024-01-15T10:30:00"))
	assert.True(t, IsLikelyTimestamp("15/Jan/2024:10:30:00 +0000"))
	assert.False(t, IsLikelyTimestamp("hello world"))
	assert.False(t, IsLikelyTimestamp("12345"))
	assert.True(t, IsLikelyTimestamp("1705315800"))
}

func TestParseTimestampLeapYear(t *testing.T) {
	ts, ok := ParseTimestamp("2024-02-29T10:30:00")
	assert.True(t, ok)
	assert.Equal(t, 2, int(ts.Month()))
	assert.Equal(t, 29, ts.Day())
}

func TestParseTimestampVeryOldAndFuture(t *testing.T) {
	_, ok := ParseTimestamp("1970-01-01T00:00:00")
	assert.True(t, ok)

	_, ok = ParseTimestamp("2050-12-31T23:59:59")
	assert.True(t, ok)
}

func TestNormalizeTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2024-01-15T10:30:00")
	assert.True(t, ok)
	result := NormalizeTimestamp(ts)
	assert.Contains(t, result, "2024")
}
