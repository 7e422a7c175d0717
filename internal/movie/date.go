package movie

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is an absolute instant stored as milliseconds since the Unix epoch.
type Date int64

// dateLayouts are the literal formats accepted by ParseDate, tried in order.
var dateLayouts = []string{
	"01-02-2006",
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// DateFromMillis returns the date for the given epoch milliseconds.
func DateFromMillis(ms int64) Date {
	return Date(ms)
}

// DateFromTime returns the date for t, truncated to the millisecond.
func DateFromTime(t time.Time) Date {
	return Date(t.UnixMilli())
}

// ParseDate builds a date from a literal string. Decimal integers are read as
// epoch milliseconds; anything else must match one of the known layouts and
// is interpreted in UTC. The conversion is lossy and not meant to round-trip.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Date(ms), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return DateFromTime(t), nil
		}
	}
	return 0, fmt.Errorf("cannot parse %q as a date", s)
}

// Millis returns the epoch milliseconds.
func (d Date) Millis() int64 {
	return int64(d)
}

// Time returns the date as a UTC time.
func (d Date) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}

// String formats the date as an RFC 3339 timestamp.
func (d Date) String() string {
	return d.Time().Format(time.RFC3339)
}

// UnmarshalYAML accepts either an integer (epoch milliseconds) or a date literal.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", node.Line)
	}
	parsed, err := ParseDate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

// MarshalYAML writes the date as epoch milliseconds.
func (d Date) MarshalYAML() (interface{}, error) {
	return int64(d), nil
}
