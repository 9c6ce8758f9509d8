package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/randalmurphal/stache/keypath"
)

// RulesSchema checks validator tags against key paths of untyped data.
type RulesSchema struct {
	rules    map[string]string
	keys     []string
	validate *validator.Validate
}

// Rules builds a schema from key path → validator tag pairs, for example
//
//	schema.Rules(map[string]string{
//	    "user.email": "required,email",
//	    "age":        "omitempty,gte=18",
//	})
//
// Keys are checked in sorted order. An absent key is only reported when its
// tag contains "required"; otherwise the tag is skipped. Tags are checked
// once up front so an unknown tag fails here instead of during a render.
func Rules(rules map[string]string) (*RulesSchema, error) {
	v := newValidator()
	keys := make([]string, 0, len(rules))
	for key, tag := range rules {
		if key == "" {
			return nil, errors.New("rule key is empty")
		}
		if err := checkTag(v, tag); err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	copied := make(map[string]string, len(rules))
	for k, tag := range rules {
		copied[k] = tag
	}
	return &RulesSchema{rules: copied, keys: keys, validate: v}, nil
}

// checkTag reports tags the validator cannot parse. validator panics on
// undefined tags while compiling them; validating a nil value compiles the
// tag without running any of its checks, so rules meant for numbers or
// slices are accepted here and checked against real values later.
func checkTag(v *validator.Validate, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid tag %q: %v", tag, r)
		}
	}()
	_ = v.Var(nil, tag)
	return nil
}

// Validate implements Schema. The input is returned unchanged on success.
func (s *RulesSchema) Validate(ctx context.Context, input any) (Result, error) {
	var issues []Issue
	for _, key := range s.keys {
		tag := s.rules[key]
		path := make([]any, 0, 4)
		for _, seg := range keypath.Split(key) {
			path = append(path, seg)
		}

		value := keypath.Lookup(input, key)
		if keypath.IsAbsent(value) {
			if requires(tag) {
				issues = append(issues, Issue{Path: path, Message: "is required"})
			}
			continue
		}

		found, err := s.check(ctx, value, tag, path)
		if err != nil {
			return Result{}, fmt.Errorf("rule %q: %w", key, err)
		}
		issues = append(issues, found...)
	}
	if len(issues) > 0 {
		return Result{Issues: issues}, nil
	}
	return Result{Value: input}, nil
}

// check runs one tag against value. validator panics when a tag meets a
// value of the wrong kind (dive on a string, min on a bool, an integer
// bound with a fractional parameter); that is the data's shape not fitting
// the rule, so it is reported as an issue.
func (s *RulesSchema) check(ctx context.Context, value any, tag string, path []any) (issues []Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = []Issue{{Path: path, Message: fmt.Sprintf("cannot apply %q to %T: %v", tag, value, r)}}
			err = nil
		}
	}()
	if err := s.validate.VarCtx(ctx, value, tag); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		return issuesFrom(verrs, path), nil
	}
	return nil, nil
}

// Keys returns the checked key paths in order.
func (s *RulesSchema) Keys() []string {
	return append([]string(nil), s.keys...)
}

func requires(tag string) bool {
	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == "required" {
			return true
		}
	}
	return false
}
