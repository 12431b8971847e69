package datectx

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadDate marks date strings that fail to parse. Callers at the HTTP
// boundary treat it as a client error.
var ErrBadDate = errors.New("invalid date")

// CalendarDate is the decomposition of one calendar date. All derivations
// use UTC midnight so day-of-year and ISO-week values are stable across
// timezone and DST boundaries.
type CalendarDate struct {
	ISO       string `json:"date"` // YYYY-MM-DD
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	DayOfWeek string `json:"dayOfWeek"`
	MonthName string `json:"monthName"`
	IsWeekend bool   `json:"isWeekend"`
	DayOfYear int    `json:"dayOfYear"`
	ISOWeek   int    `json:"isoWeek"`
	Quarter   int    `json:"quarter"`

	t time.Time
}

// Time returns the date as midnight UTC.
func (d CalendarDate) Time() time.Time {
	return d.t
}

// Decompose derives a CalendarDate from t, normalized to UTC.
func Decompose(t time.Time) CalendarDate {
	t = t.UTC()
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	weekday := t.Weekday()
	_, isoWeek := t.ISOWeek()

	return CalendarDate{
		ISO:       t.Format("2006-01-02"),
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		DayOfWeek: weekday.String(),
		MonthName: t.Month().String(),
		IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
		DayOfYear: t.YearDay(),
		ISOWeek:   isoWeek,
		Quarter:   (int(t.Month())-1)/3 + 1,
		t:         t,
	}
}

// ParseDate decomposes an ISO YYYY-MM-DD date string. The string must name
// a real calendar day; "2024-02-30" is rejected.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w %q (expected YYYY-MM-DD)", ErrBadDate, s)
	}
	return Decompose(t), nil
}

// ParseDateOrNow decomposes s, or the current UTC day when s is empty.
func ParseDateOrNow(s string, now func() time.Time) (CalendarDate, error) {
	if s == "" {
		return Decompose(now()), nil
	}
	return ParseDate(s)
}
