package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var numericNoise = strings.NewReplacer(",", "", "%", "", " ", "")

// CoerceInt converts a loosely formatted upstream value into an int, returning
// def for nil, blank, "-" and anything that does not parse as a number.
func CoerceInt(value any, def int) int {
	n, ok := ParseInt(value)
	if !ok {
		return def
	}
	return n
}

// ParseInt is the strict form of CoerceInt: ok is false whenever CoerceInt
// would fall back to its default. Fractional values are truncated.
func ParseInt(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		return truncate(float64(v))
	case float64:
		return truncate(v)
	case json.Number:
		return parseNumeric(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" {
			return 0, false
		}
		return parseNumeric(numericNoise.Replace(s))
	default:
		return parseNumeric(fmt.Sprint(v))
	}
}

func parseNumeric(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return truncate(f)
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

// LeadingDigits returns the integer formed by the first run of ASCII digits
// in s, e.g. "2018년" -> 2018, " 3월" -> 3.
func LeadingDigits(s string) (int, bool) {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
