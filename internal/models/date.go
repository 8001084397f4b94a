package models

import (
	"fmt"
	"strings"
	"time"
)

// Input dates are day.month.year, with or without leading zeros.
const (
	DATE_INPUT_LAYOUT  = "2.1.2006"
	DATE_OUTPUT_LAYOUT = "02.01.2006"
)

// Date is a calendar day without a time component, held as UTC midnight.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	t, err := time.ParseInLocation(DATE_INPUT_LAYOUT, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected day.month.year", value)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DATE_OUTPUT_LAYOUT)
}

// AddDays returns the date shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysSince returns the number of whole days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Sub(other.Time).Hours() / 24)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
