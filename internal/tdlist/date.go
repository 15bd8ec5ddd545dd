package tdlist

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the week, Monday-first. It marshals as the lowercase
// three-letter name ("mon".."sun") so it is readable in saved JSON and usable
// as a map key.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

func (w Weekday) MarshalText() ([]byte, error) {
	if w < Monday || w > Sunday {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return []byte(weekdayNames[w]), nil
}

func (w *Weekday) UnmarshalText(b []byte) error {
	wd, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = wd
	return nil
}

// ParseWeekday accepts short ("mon") and full ("monday") names, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mon", "monday":
		return Monday, nil
	case "tue", "tuesday":
		return Tuesday, nil
	case "wed", "wednesday":
		return Wednesday, nil
	case "thu", "thursday":
		return Thursday, nil
	case "fri", "friday":
		return Friday, nil
	case "sat", "saturday":
		return Saturday, nil
	case "sun", "sunday":
		return Sunday, nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// Date is a calendar date without a time-of-day. The zero value means "unset"
// (used for Todo completion dates). It marshals as "YYYY-MM-DD".
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

// Today is the current date in local time.
func Today() Date {
	y, m, d := time.Now().Date()
	return Date{year: y, month: m, day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() Weekday {
	// time.Weekday is Sunday-first.
	return Weekday((int(d.time().Weekday()) + 6) % 7)
}

// Next is the following calendar day.
func (d Date) Next() Date {
	y, m, day := d.time().AddDate(0, 0, 1).Date()
	return Date{year: y, month: m, day: day}
}

// Prev is the preceding calendar day.
func (d Date) Prev() Date {
	y, m, day := d.time().AddDate(0, 0, -1).Date()
	return Date{year: y, month: m, day: day}
}

func (d Date) Before(o Date) bool { return d.time().Before(o.time()) }
func (d Date) After(o Date) bool  { return d.time().After(o.time()) }

func (d Date) String() string {
	return d.time().Format("2006-01-02")
}

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte(""), nil
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, day := t.Date()
	*d = Date{year: y, month: m, day: day}
	return nil
}

// dateOfWeekday is the date of the upcoming weekday, counting today as
// upcoming: given today's weekday it returns today, given tomorrow's weekday
// it returns tomorrow's date.
func dateOfWeekday(w Weekday, today Date) Date {
	for today.Weekday() != w {
		today = today.Next()
	}
	return today
}

// NextOccurrence returns the next date falling on w, counting today.
func (w Weekday) NextOccurrence() Date {
	return dateOfWeekday(w, Today())
}
