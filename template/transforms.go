package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/stache/keypath"
)

// Chain runs transforms left to right, feeding each the previous result.
func Chain(fns ...TransformFunc) TransformFunc {
	return func(value any, key string) any {
		for _, fn := range fns {
			if fn != nil {
				value = fn(value, key)
			}
		}
		return value
	}
}

// OnlyKeys applies fn to the listed keys and passes other values through.
func OnlyKeys(fn TransformFunc, keys ...string) TransformFunc {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return func(value any, key string) any {
		if _, ok := set[key]; !ok {
			return value
		}
		return fn(value, key)
	}
}

// stringsOnly lifts a string function to a transform that leaves
// non-string values alone.
func stringsOnly(fn func(string) string) TransformFunc {
	return func(value any, _ string) any {
		if s, ok := value.(string); ok {
			return fn(s)
		}
		return value
	}
}

var (
	// Upper converts string values to upper case.
	Upper = stringsOnly(strings.ToUpper)

	// Lower converts string values to lower case.
	Lower = stringsOnly(strings.ToLower)

	// Trim removes leading and trailing whitespace from string values.
	Trim = stringsOnly(strings.TrimSpace)
)

// JSON replaces maps, slices and structs with indented JSON. Strings,
// scalars and missing values pass through.
func JSON(value any, _ string) any {
	switch value.(type) {
	case nil, string, bool, int, int64, float64:
		return value
	}
	if keypath.IsAbsent(value) {
		return value
	}
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return value
	}
	return string(b)
}

// Truncate cuts string values longer than maxLen runes and appends "...".
// For maxLen <= 3 the string is cut without an ellipsis.
func Truncate(maxLen int) TransformFunc {
	return stringsOnly(func(s string) string {
		r := []rune(s)
		if len(r) <= maxLen {
			return s
		}
		if maxLen <= 0 {
			return ""
		}
		if maxLen <= 3 {
			return string(r[:maxLen])
		}
		return string(r[:maxLen-3]) + "..."
	})
}

// Default substitutes def for missing values, nil and the empty string.
// Zero values such as 0 and false are kept.
func Default(def any) TransformFunc {
	return func(value any, _ string) any {
		if value == nil || keypath.IsAbsent(value) {
			return def
		}
		if s, ok := value.(string); ok && s == "" {
			return def
		}
		return value
	}
}

// TransformNames lists the names accepted by TransformByName.
var TransformNames = []string{"upper", "lower", "trim", "json", "truncate=N", "default=TEXT"}

// TransformByName parses a transform spec such as "upper", "truncate=80"
// or "default=n/a".
func TransformByName(spec string) (TransformFunc, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(spec), "=")
	switch strings.ToLower(name) {
	case "upper":
		return Upper, nil
	case "lower":
		return Lower, nil
	case "trim":
		return Trim, nil
	case "json":
		return JSON, nil
	case "truncate":
		n, err := strconv.Atoi(arg)
		if !hasArg || err != nil || n < 0 {
			return nil, fmt.Errorf("truncate needs a non-negative length, got %q", arg)
		}
		return Truncate(n), nil
	case "default":
		if !hasArg {
			return nil, fmt.Errorf("default needs a value, as in default=TEXT")
		}
		return Default(arg), nil
	default:
		return nil, fmt.Errorf("unknown transform %q (want one of %s)", spec, strings.Join(TransformNames, ", "))
	}
}
