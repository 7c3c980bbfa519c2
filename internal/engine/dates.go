package engine

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Today returns the calendar date of clock's current time.
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}

// IsNewDay reports whether today differs from the last processed date.
func IsNewDay(last, today civil.Date) bool {
	return last != today
}

// IsConsecutive reports whether next is exactly one calendar day after prev.
func IsConsecutive(prev, next civil.Date) bool {
	return prev.AddDays(1) == next
}

// legacyDateLayouts are the date encodings older snapshots used for lastLoginDate.
var legacyDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"Mon Jan 02 2006",
	"Mon Jan 2 2006",
}

// ParseLoginDate parses a stored login date in any of the known encodings.
func ParseLoginDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range legacyDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unrecognized date: %q", s)
}
