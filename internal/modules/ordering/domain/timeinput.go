package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	strictTimePattern    = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	bareHourPattern      = regexp.MustCompile(`^([01]?\d|2[0-3])$`)
	hourColonPattern     = regexp.MustCompile(`^([01]\d|2[0-3]):$`)
	partialMinutePattern = regexp.MustCompile(`^([01]\d|2[0-3]):(\d)$`)
)

// NormalizeTimeInput reformats partially typed input into the canonical "HH:MM" shape.
// Incomplete values (a bare hour, "HH:", "HH:M") are kept as typed so the caller can
// keep editing; hours are clamped to 23 and two-digit minutes to 59.
func NormalizeTimeInput(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	cleaned := keepDigitsAndColon(v)

	if strings.Contains(cleaned, ":") {
		parts := strings.Split(cleaned, ":")
		hDigits := truncate(digitsOnly(parts[0]), 2)
		if hDigits == "" {
			return ""
		}
		if len(hDigits) < 2 {
			return hDigits
		}
		if atoi(hDigits) > 23 {
			return "23"
		}

		mRaw := ""
		if len(parts) > 1 {
			mRaw = parts[1]
		}
		mDigits := truncate(digitsOnly(mRaw), 2)

		switch {
		case mRaw == "" && strings.HasSuffix(cleaned, ":"):
			return hDigits + ":"
		case len(mDigits) == 1:
			return hDigits + ":" + mDigits
		case len(mDigits) == 2:
			if atoi(mDigits) > 59 {
				return hDigits + ":59"
			}
			return hDigits + ":" + mDigits
		}
		return hDigits
	}

	digits := truncate(digitsOnly(cleaned), 4)
	switch len(digits) {
	case 0, 1, 2:
		if digits != "" && atoi(digits) > 23 {
			return "23"
		}
		return digits
	case 3:
		h := atoi(digits[:2])
		if h > 23 {
			return "23"
		}
		// a single trailing digit is always a minute below ten
		return fmt.Sprintf("%02d:0%s", h, digits[2:])
	}

	h := min(atoi(digits[:2]), 23)
	m := min(atoi(digits[2:]), 59)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FinalizeTimeOnBlur completes a partially typed value once the field loses focus.
func FinalizeTimeOnBlur(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if _, ok := TimeToMinutes(v); ok {
		return v
	}

	normalized := NormalizeTimeInput(v)
	if bareHourPattern.MatchString(normalized) {
		return fmt.Sprintf("%02d:00", atoi(normalized))
	}
	if hourColonPattern.MatchString(normalized) {
		return normalized + "00"
	}
	if match := partialMinutePattern.FindStringSubmatch(normalized); match != nil {
		return match[1] + ":0" + match[2]
	}
	return normalized
}

// TimeToMinutes parses a strict "HH:MM" value into minutes since midnight.
func TimeToMinutes(value string) (int, bool) {
	match := strictTimePattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	return atoi(match[1])*60 + atoi(match[2]), true
}

// Window is an inclusive range of minutes since midnight.
type Window struct {
	Start int
	End   int
}

// Contains reports whether minute falls inside the window, both ends included.
func (w Window) Contains(minute int) bool {
	return minute >= w.Start && minute <= w.End
}

func (w Window) String() string {
	return formatMinutes(w.Start) + "-" + formatMinutes(w.End)
}

// BusinessHours lists the service windows in which orders can be collected.
type BusinessHours []Window

// DefaultBusinessHours covers lunch (11:30-14:00) and dinner (18:15-21:00).
var DefaultBusinessHours = BusinessHours{
	{Start: 11*60 + 30, End: 14 * 60},
	{Start: 18*60 + 15, End: 21 * 60},
}

// Contains reports whether the "HH:MM" value falls in any window. Unparseable input is false.
func (b BusinessHours) Contains(value string) bool {
	minutes, ok := TimeToMinutes(value)
	if !ok {
		return false
	}
	for _, w := range b {
		if w.Contains(minutes) {
			return true
		}
	}
	return false
}

func (b BusinessHours) String() string {
	parts := make([]string, 0, len(b))
	for _, w := range b {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, " | ")
}

// IsWithinBusinessHours checks value against DefaultBusinessHours.
func IsWithinBusinessHours(value string) bool {
	return DefaultBusinessHours.Contains(value)
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func keepDigitsAndColon(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
