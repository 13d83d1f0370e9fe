package core

import (
	"strconv"
	"strings"
	"time"
)

// Date-range classification for the dashboard filters. All calculations are
// done in UTC calendar terms so that date-only values never drift across the
// local timezone boundary.

// ParseDateOnly parses a YYYY-MM-DD string into a UTC midnight instant.
// Out-of-range components are normalized by time.Date (e.g. 2024-02-30 rolls
// into March); the classifier only needs consistent ordering, not calendar
// validation. Returns ok=false for empty or non-numeric input.
func ParseDateOnly(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// ValidDateOnly reports whether s is a well-formed YYYY-MM-DD string naming
// a real calendar date. Stricter than ParseDateOnly, which normalizes
// overflowing components; form input goes through this check so nobody can
// record an entry on 2024-02-31.
func ValidDateOnly(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// WeekRange returns the Monday 00:00:00 and Sunday 23:59:59 (UTC) of the
// week containing now. Monday is weekday 0, Sunday weekday 6.
func WeekRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	wd := (int(now.Weekday()) + 6) % 7 // Mon=0 ... Sun=6
	monday := time.Date(now.Year(), now.Month(), now.Day()-wd, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, time.UTC)
	return monday, sunday
}

// InWeek reports whether the date-only value falls within the Mon-Sun week
// containing now, inclusive on both ends. False for unparseable input.
func InWeek(now time.Time, date string) bool {
	d, ok := ParseDateOnly(date)
	if !ok {
		return false
	}
	start, end := WeekRange(now)
	return !d.Before(start) && !d.After(end)
}

// InMonth reports whether the date-only value falls in the same UTC calendar
// month as now. False for unparseable input.
func InMonth(now time.Time, date string) bool {
	d, ok := ParseDateOnly(date)
	if !ok {
		return false
	}
	now = now.UTC()
	return d.Year() == now.Year() && d.Month() == now.Month()
}

// InThisWeek is InWeek evaluated against the current wall clock.
func InThisWeek(date string) bool {
	return InWeek(time.Now(), date)
}

// InThisMonth is InMonth evaluated against the current wall clock.
func InThisMonth(date string) bool {
	return InMonth(time.Now(), date)
}

// Filter selects which time entries count toward dashboard totals.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
)

// ParseFilter maps a query-string value onto a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(strings.TrimSpace(strings.ToLower(s))) {
	case FilterWeek:
		return FilterWeek
	case FilterMonth:
		return FilterMonth
	default:
		return FilterAll
	}
}

// Matches reports whether an entry dated date passes the filter at now.
func (f Filter) Matches(now time.Time, date string) bool {
	switch f {
	case FilterWeek:
		return InWeek(now, date)
	case FilterMonth:
		return InMonth(now, date)
	default:
		return true
	}
}
