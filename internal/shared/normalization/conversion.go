package normalization

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AsString trims and returns the string representation of value when possible.
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// AsInt coerces numeric values supported by the REST layer into Go ints.
func AsInt(value any) int {
	n, _ := AsOptionalInt(value)
	return n
}

// AsOptionalInt reports whether value carried a number at all.
func AsOptionalInt(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case float32:
		return int(typed), true
	case int:
		return typed, true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	default:
		return 0, false
	}
}

// AsNullDecimal keeps only real numbers; strings and anything else mean "no price".
func AsNullDecimal(value any) decimal.NullDecimal {
	switch typed := value.(type) {
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(typed))
	case float32:
		return decimal.NewNullDecimal(decimal.NewFromFloat32(typed))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(typed)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(typed))
	case decimal.Decimal:
		return decimal.NewNullDecimal(typed)
	default:
		return decimal.NullDecimal{}
	}
}

// AsBool parses the loose boolean shapes the database and forms produce.
// The second result is false when value is not recognisable.
func AsBool(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case float64:
		return boolFromNumber(typed)
	case int:
		return boolFromNumber(float64(typed))
	case int64:
		return boolFromNumber(float64(typed))
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "1", "t", "yes":
			return true, true
		case "false", "0", "f", "no":
			return false, true
		}
	}
	return false, false
}

func boolFromNumber(n float64) (bool, bool) {
	switch n {
	case 1:
		return true, true
	case 0:
		return false, true
	default:
		return false, false
	}
}

// AsInterfaceSlice normalizes different collection types into a []any.
func AsInterfaceSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// MapFromPayload attempts to unwrap common envelope structures (e.g. {"data": {...}})
// into a plain map for normalization routines.
func MapFromPayload(value any) map[string]any {
	if value == nil {
		return nil
	}
	if typed, ok := value.(map[string]any); ok {
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	}
	return nil
}

// FirstMap unwraps an embedded relation that may arrive as an object or as a
// one-element array.
func FirstMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case []any:
		if len(typed) == 0 {
			return nil
		}
		if first, ok := typed[0].(map[string]any); ok {
			return first
		}
	}
	return nil
}
