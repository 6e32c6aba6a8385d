// Package dates provides the fuzzy date arithmetic used by the experience calculations.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a parsed date
type Kind int

const (
	// Unbounded is an absent, empty or "ongoing" date
	Unbounded Kind = iota
	// Concrete is a calendar date
	Concrete
	// Invalid is text that could not be read as a date; arithmetic treats it as unbounded
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case Invalid:
		return "invalid"
	default:
		return "unbounded"
	}
}

var ongoingSentinels = map[string]struct{}{
	"now":     {},
	"present": {},
	"current": {},
	"ongoing": {},
}

var (
	yearMonthPattern = regexp.MustCompile(`^\s*(\d{4})-(\d{2})\s*$`)
	yearPattern      = regexp.MustCompile(`^\s*(\d{4})\s*$`)
)

// Date is a tri-state date: concrete, unbounded, or invalid
type Date struct {
	kind Kind
	t    time.Time
	raw  string
}

// Of builds a concrete date
func Of(year int, month time.Month, day int) Date {
	return Date{kind: Concrete, t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date
func FromTime(t time.Time) Date {
	return Of(t.Year(), t.Month(), t.Day())
}

// Parse reads YYYY-MM-DD, YYYY-MM (day 1) or YYYY (January 1st).
// Empty input and the sentinels now/present/current/ongoing are unbounded.
// Anything else is Invalid.
func Parse(s string) Date {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Date{kind: Unbounded}
	}
	if _, ok := ongoingSentinels[strings.ToLower(trimmed)]; ok {
		return Date{kind: Unbounded, raw: s}
	}

	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if len(trimmed) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Date{kind: Concrete, t: t, raw: s}
		}
	}
	return Date{kind: Invalid, raw: s}
}

// Kind reports the date classification
func (d Date) Kind() Kind {
	return d.kind
}

// IsConcrete reports whether d is a calendar date
func (d Date) IsConcrete() bool {
	return d.kind == Concrete
}

// Time returns the calendar date; ok is false for non-concrete dates
func (d Date) Time() (time.Time, bool) {
	return d.t, d.kind == Concrete
}

// Raw returns the text the date was parsed from
func (d Date) Raw() string {
	return d.raw
}

// Year returns the year of a concrete date, 0 otherwise
func (d Date) Year() int {
	if !d.IsConcrete() {
		return 0
	}
	return d.t.Year()
}

// Month returns the month of a concrete date, 0 otherwise
func (d Date) Month() int {
	if !d.IsConcrete() {
		return 0
	}
	return int(d.t.Month())
}

// Before reports whether both dates are concrete and d is strictly earlier than o
func (d Date) Before(o Date) bool {
	return d.IsConcrete() && o.IsConcrete() && d.t.Before(o.t)
}

// After reports whether both dates are concrete and d is strictly later than o
func (d Date) After(o Date) bool {
	return d.IsConcrete() && o.IsConcrete() && d.t.After(o.t)
}

func (d Date) String() string {
	if d.IsConcrete() {
		return d.t.Format("2006-01-02")
	}
	return fmt.Sprintf("%s(%q)", d.kind, d.raw)
}

// OrToday substitutes today for a non-concrete date
func OrToday(d Date, today Date) Date {
	if d.IsConcrete() {
		return d
	}
	return today
}

// MonthsBetween returns the whole months from a to b, floored at zero.
// A partial month (b's day before a's day) does not count.
// ok is false when either bound is not concrete.
func MonthsBetween(a, b Date) (int, bool) {
	if !a.IsConcrete() || !b.IsConcrete() {
		return 0, false
	}
	months := (b.t.Year()-a.t.Year())*12 + int(b.t.Month()) - int(a.t.Month())
	if b.t.Day() < a.t.Day() {
		months--
	}
	return max(months, 0), true
}

// FormatYearMonth renders a concrete date as YYYY-MM, "" otherwise
func FormatYearMonth(d Date) string {
	if !d.IsConcrete() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", d.t.Year(), int(d.t.Month()))
}

// FormatLabel renders YYYY-MM and YYYY-MM-DD values as "<month> <year>" using a
// 12-entry month name table, and YYYY values as the bare year. Any other input,
// or a malformed month table, returns value unchanged.
func FormatLabel(value string, months []string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}

	if m := yearMonthPattern.FindStringSubmatch(s); m != nil {
		if len(months) != 12 {
			return value
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		month = min(max(month, 1), 12)
		return fmt.Sprintf("%s %d", months[month-1], year)
	}

	if m := yearPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		if len(months) != 12 {
			return value
		}
		return fmt.Sprintf("%s %d", months[int(t.Month())-1], t.Year())
	}

	return value
}
