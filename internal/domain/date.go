package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates ("data_admissao",
// "data_fim_experiencia")
const DateLayout = "2006-01-02"

// DisplayDateLayout is the pt-BR date format used on screen
const DisplayDateLayout = "02/01/2006"

// DisplayDateTimeLayout is the pt-BR date/time format used on screen
const DisplayDateTimeLayout = "02/01/2006 15:04:05"

// DefaultProbationDays is the length of the experiência window when no
// explicit end date is given
const DefaultProbationDays = 45

// Date is a calendar day without time zone, anchored at UTC midnight
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the UTC midnight instant of the day
func (d Date) Time() time.Time {
	return d.t
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Display formats the date as DD/MM/YYYY
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayDateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", a full ISO timestamp, "" or null
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ProbationEnd returns the end of the experiência window. An explicit end date
// wins; otherwise the window is DefaultProbationDays after admission.
func ProbationEnd(admission Date, explicitEnd Date) Date {
	if !explicitEnd.IsZero() {
		return explicitEnd
	}
	return admission.AddDays(DefaultProbationDays)
}

// DaysRemaining is ceil((end - now) in days), never below zero
func DaysRemaining(end Date, now time.Time) int {
	if end.IsZero() {
		return 0
	}
	days := math.Ceil(end.Time().Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// ParseTimestamp parses the backend's "data_feedback" values. Python's
// isoformat omits the zone, so naive values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		DateLayout,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
