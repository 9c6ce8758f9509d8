package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that reports json field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// describe turns a validator failure into a human-readable message.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %q validation (%s)", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// issuesFrom converts validator errors from Var checks to issues, with
// prefix prepended to every path.
func issuesFrom(errs validator.ValidationErrors, prefix []any) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		path := append(append([]any{}, prefix...), ParsePath(fe.Namespace())...)
		issues = append(issues, Issue{Path: path, Message: describe(fe)})
	}
	return issues
}

// structIssues converts validator errors for a struct of type t. Paths
// name fields the way encoding/json does, so they match the input data.
func structIssues(errs validator.ValidationErrors, t reflect.Type) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		issues = append(issues, Issue{Path: jsonPath(t, fe.StructNamespace()), Message: describe(fe)})
	}
	return issues
}

// jsonPath maps a validator struct namespace ("signup.Base.ID") onto json
// names. The root type name is dropped, as are untagged embedded structs,
// whose fields encoding/json promotes.
func jsonPath(t reflect.Type, ns string) []any {
	if rest, ok := strings.CutPrefix(ns, t.Name()+"."); ok {
		ns = rest
	} else if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	} else {
		return nil
	}

	var path []any
	for _, elem := range ParsePath(ns) {
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if name, ok := elem.(string); ok && t != nil && t.Kind() == reflect.Struct {
			if sf, found := t.FieldByName(name); found && len(sf.Index) == 1 {
				t = sf.Type
				tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
				if tag == "" && sf.Anonymous && indirect(sf.Type).Kind() == reflect.Struct {
					continue
				}
				if tag != "" && tag != "-" {
					name = tag
				}
				path = append(path, name)
				continue
			}
		}
		if t != nil {
			switch t.Kind() {
			case reflect.Slice, reflect.Array, reflect.Map:
				t = t.Elem()
			default:
				t = nil
			}
		}
		path = append(path, elem)
	}
	return path
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
