// Package businessdate attributes wall-clock timestamps to the business day
// they belong to under a start-of-day cutoff hour.
package businessdate

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Resolve returns the calendar date of t shifted back by cutoffHour hours.
// Activity before the cutoff belongs to the previous business day.
func Resolve(t time.Time, cutoffHour int) time.Time {
	return DateOf(t.Add(-time.Duration(cutoffHour) * time.Hour))
}

// DateOf truncates t to its calendar date at 00:00 UTC, keeping the wall-clock
// year, month and day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InRange reports whether date lies in [start, end], all compared as dates.
func InRange(date, start, end time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(start)) && !d.After(DateOf(end))
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/06 15:04",
	"1/2/06 3:04 PM",
	"1/2/2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"02-Jan-2006 15:04:05",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006 3:04 PM",
}

// Excel serial range accepted as a timestamp (1954-10-03 .. 2119-01-08).
const (
	minSerial = 20000
	maxSerial = 80000
)

// ParseTimestamp parses a leads export timestamp as zone-less wall-clock time.
// It accepts Excel serial date numbers and the common textual layouts.
func ParseTimestamp(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minSerial || serial > maxSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wallClock(t), true
		}
	}
	return time.Time{}, false
}

var dayLayouts = []string{
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"1-2-2006",
	"1-2-06",
	"1/2/06",
}

var yearlessLayouts = []string{
	"2-Jan",
	"Jan-2",
	"2 Jan",
	"Jan 2",
}

// ParseDay parses the Day/date cell of an hours export into a calendar date.
// Besides every timestamp layout it accepts date-only text such as
// "10-Mar-2025" or "Mar 10, 2025". Year-less forms ("10-Mar", "Mar-10") take
// year; they are rejected when year is 0.
func ParseDay(text string, year int) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := ParseTimestamp(s); ok {
		return DateOf(t), true
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	if year <= 0 {
		return time.Time{}, false
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a request date ("2006-01-02") into a business date.
func ParseDate(text string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// wallClock drops any zone offset while keeping the written clock reading.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
