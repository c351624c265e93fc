package models

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a nullable calendar date. It scans from and binds to DATE columns and
// renders as "YYYY-MM-DD" or null.
type Date struct {
	pgtype.Date
}

// NewDate returns a valid Date for t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}}
}

// ParseDate parses a "YYYY-MM-DD" value. Blank input yields a NULL date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	// clients sometimes send full ISO timestamps back.
	if len(raw) > len(DateLayout) && raw[len(DateLayout)] == 'T' {
		raw = raw[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// String renders the date, or "" when NULL.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}
