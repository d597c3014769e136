package entity

import (
	"encoding/json"
	"time"
)

// DateLayout is the day/month/4-digit-year rendering used in reports.
const DateLayout = "02/01/2006"

// Date is a calendar date with day granularity. The zero value means absent.
type Date struct {
	t time.Time
}

// NewDate returns a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses DD/MM/YYYY strictly; ok is false for malformed or impossible dates.
func ParseDate(s string) (Date, bool) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// String renders DD/MM/YYYY, or "" when absent.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, ok := ParseDate(s)
	if !ok {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}
