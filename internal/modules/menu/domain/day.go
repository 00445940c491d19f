package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultLocation is the restaurant's wall clock.
const DefaultLocation = "Europe/Lisbon"

// LoadLocation resolves name, falling back to DefaultLocation and then UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultLocation
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultLocation); err == nil {
		return loc
	}
	return time.UTC
}

// BusinessDay returns the "YYYY-MM-DD" date of now as seen in loc.
func BusinessDay(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(time.DateOnly)
}

// ParseDay validates a "YYYY-MM-DD" day.
func ParseDay(day string) (time.Time, error) {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(day))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return parsed, nil
}

// AddDays shifts a calendar day by n days.
func AddDays(day string, n int) (string, error) {
	parsed, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return parsed.AddDate(0, 0, n).Format(time.DateOnly), nil
}

// DayBounds returns the instants at which day starts and ends in loc.
func DayBounds(day string, loc *time.Location) (time.Time, time.Time, error) {
	parsed, err := ParseDay(day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}
