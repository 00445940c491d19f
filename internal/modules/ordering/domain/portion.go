package domain

import "strings"

// Portion is the serving size of a dish.
type Portion string

const (
	PortionHalf Portion = "half"
	PortionFull Portion = "full"
)

const halfDishPrefix = "1/2"

// Label returns the customer-facing portion label used in line notes.
func (p Portion) Label() string {
	if p == PortionHalf {
		return "1/2 dose"
	}
	return "1 dose"
}

// ParsePortion accepts "half"/"full" in any case; anything else is reported as unknown.
func ParsePortion(raw string) (Portion, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(PortionHalf):
		return PortionHalf, true
	case string(PortionFull):
		return PortionFull, true
	default:
		return "", false
	}
}

// IsHalfDishName reports whether a dish is named as a half portion ("1/2 Bitoque").
func IsHalfDishName(name string) bool {
	return strings.HasPrefix(strings.TrimSpace(name), halfDishPrefix)
}

// ResolvePortion prefers an explicit portion type and falls back to the dish name.
func ResolvePortion(portionType, name string) Portion {
	if p, ok := ParsePortion(portionType); ok {
		return p
	}
	if IsHalfDishName(name) {
		return PortionHalf
	}
	return PortionFull
}
