// Package availability decides whether a proposed appointment falls inside a doctor's declared
// weekly working window.
//
// A window is a weekday span plus a time-of-day span. Both spans are inclusive. The weekday span
// can be compared in calendar order, where a friday to monday window wraps over the weekend, or in
// lexical order, which compares the lower-case weekday names as plain strings the way records
// created by the previous system expect.
package availability

import (
	"fmt"
	"strings"
	"time"
)

const (
	ErrDayNotWorked  = Error("doctor does not work this day")
	ErrOutsideHours  = Error("time outside doctor's hours")
	ErrInvalidDay    = Error("invalid weekday")
	ErrInvalidClock  = Error("invalid time of day")
	ErrInvalidDate   = Error("invalid date")
	ErrInvertedHours = Error("from time must not be after to time")
)

// Error is a rejection reason that can be shown to the user as is.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Weekday is the lower-case english name of a day of the week.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

var weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseWeekday parses a weekday name, ignoring case and surrounding spaces.
func ParseWeekday(s string) (Weekday, error) {
	name := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, w := range weekdays {
		if w == name {
			return w, nil
		}
	}
	return "", ErrInvalidDay
}

// WeekdayOf returns the weekday of the given date.
func WeekdayOf(date time.Time) Weekday {
	return weekdays[date.Weekday()]
}

// index returns the position of the weekday in a sunday first week, or -1.
func (w Weekday) index() int {
	for i, v := range weekdays {
		if v == w {
			return i
		}
	}
	return -1
}

// Ordering determines how a weekday span is compared.
type Ordering string

const (
	// CalendarOrdering walks the week as a circle, so a span may cross saturday into sunday.
	CalendarOrdering Ordering = "calendar"
	// LexicalOrdering compares weekday names as strings.
	LexicalOrdering Ordering = "lexical"
)

// ParseOrdering parses an ordering name. An empty name means CalendarOrdering.
func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(strings.ToLower(s)) {
	case "", CalendarOrdering:
		return CalendarOrdering, nil
	case LexicalOrdering:
		return LexicalOrdering, nil
	}
	return "", fmt.Errorf("unknown weekday ordering %q", s)
}

// Contains reports whether day lies between from and to, both inclusive.
func (o Ordering) Contains(from, to, day Weekday) bool {
	if o == LexicalOrdering {
		return day >= from && day <= to
	}
	f, t, d := from.index(), to.index(), day.index()
	if f < 0 || t < 0 || d < 0 {
		return false
	}
	return (d-f+7)%7 <= (t-f+7)%7
}

// Clock is a time of day with minute precision, stored as minutes since midnight.
type Clock int

// NewClock creates a Clock from an hour and a minute.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ClockOf returns the time of day of t, dropping seconds.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// ParseClock parses "15:04", "15:04:05" or an RFC 3339 timestamp.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, ErrInvalidClock
}

// ParseDate parses "2006-01-02" or an RFC 3339 timestamp into a date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func (c Clock) Hour() int {
	return int(c) / 60
}

func (c Clock) Minute() int {
	return int(c) % 60
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Time returns the clock as a time on the zero date, the shape the database driver expects for
// TIME columns.
func (c Clock) Time() time.Time {
	return time.Date(0, time.January, 1, c.Hour(), c.Minute(), 0, 0, time.UTC)
}

// Window is a doctor's declared weekly availability.
type Window struct {
	FromWeekday Weekday
	ToWeekday   Weekday
	FromTime    Clock
	ToTime      Clock
}

// Validate checks that the window only holds known weekdays and a non inverted time span.
func (w Window) Validate() error {
	if w.FromWeekday.index() < 0 || w.ToWeekday.index() < 0 {
		return ErrInvalidDay
	}
	if w.FromTime < 0 || w.ToTime >= 24*60 {
		return ErrInvalidClock
	}
	if w.FromTime > w.ToTime {
		return ErrInvertedHours
	}
	return nil
}

// Validator checks proposed appointments against availability windows.
type Validator struct {
	ordering Ordering
}

// NewValidator creates a Validator comparing weekday spans with the given ordering.
func NewValidator(ordering Ordering) Validator {
	if ordering == "" {
		ordering = CalendarOrdering
	}
	return Validator{ordering: ordering}
}

// Ordering returns the weekday ordering used by the validator.
func (v Validator) Ordering() Ordering {
	return v.ordering
}

// Check returns nil when the appointment fits the window, ErrDayNotWorked when the weekday of
// date is outside the weekday span, and ErrOutsideHours when at is outside the time span.
// The weekday is checked first.
func (v Validator) Check(w Window, date time.Time, at Clock) error {
	if !v.ordering.Contains(w.FromWeekday, w.ToWeekday, WeekdayOf(date)) {
		return ErrDayNotWorked
	}
	if at < w.FromTime || at > w.ToTime {
		return ErrOutsideHours
	}
	return nil
}

// Contains reports whether the appointment fits the window.
func (v Validator) Contains(w Window, date time.Time, at Clock) bool {
	return v.Check(w, date, at) == nil
}
