package schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Issue is a single validation problem.
type Issue struct {
	// Path locates the offending value: string keys and int indexes.
	// Empty means the input as a whole.
	Path []any `json:"path,omitempty" yaml:"path,omitempty"`

	// Message describes the problem.
	Message string `json:"message" yaml:"message"`
}

// PathString joins the path with dots.
func (i Issue) PathString() string {
	parts := make([]string, len(i.Path))
	for n, p := range i.Path {
		parts[n] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return i.PathString() + ": " + i.Message
}

// Result is the outcome of a schema check. A non-empty Issues list means
// failure and Value is ignored.
type Result struct {
	Value  any
	Issues []Issue
}

// Schema validates and transforms raw input.
//
// Validate may block (for example on a remote validator) and should honour
// ctx. A returned error means the validator itself failed, not the input.
type Schema interface {
	Validate(ctx context.Context, input any) (Result, error)
}

// Validate runs s against input once and returns the validated value.
// Issues are reported as a *ValidationError. A nil schema returns input
// unchanged.
func Validate(ctx context.Context, s Schema, input any) (any, error) {
	if s == nil {
		return input, nil
	}
	res, err := s.Validate(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if len(res.Issues) > 0 {
		return nil, &ValidationError{Issues: res.Issues}
	}
	return res.Value, nil
}

// ParsePath converts a dotted path such as "items[2].name" or "items.2.name"
// into issue path elements, turning bracketed indexes into ints.
func ParsePath(path string) []any {
	if path == "" {
		return nil
	}
	var out []any
	for _, part := range strings.Split(path, ".") {
		name, rest, hasIndex := strings.Cut(part, "[")
		if name != "" {
			out = append(out, name)
		}
		for hasIndex {
			var idx string
			idx, rest, _ = strings.Cut(rest, "]")
			if n, err := strconv.Atoi(idx); err == nil {
				out = append(out, n)
			} else {
				out = append(out, idx)
			}
			_, rest, hasIndex = strings.Cut(rest, "[")
		}
	}
	return out
}
