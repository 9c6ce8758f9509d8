package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// StructSchema decodes input into T and checks its validate tags.
type StructSchema[T any] struct {
	validate *validator.Validate
}

// Struct returns a schema for the struct type T. Input that is already a
// T or *T is validated as is; anything else is decoded through JSON, so a
// map[string]any from a data file becomes a T.
//
// On success the validated T is the result value; nested lookup addresses
// its fields by json tag name.
func Struct[T any]() *StructSchema[T] {
	return &StructSchema[T]{validate: newValidator()}
}

// Validate implements Schema.
func (s *StructSchema[T]) Validate(ctx context.Context, input any) (Result, error) {
	var out T
	switch v := input.(type) {
	case T:
		out = v
	case *T:
		if v == nil {
			return Result{Issues: []Issue{{Message: "input is nil"}}}, nil
		}
		out = *v
	default:
		raw, err := json.Marshal(input)
		if err != nil {
			return Result{}, fmt.Errorf("encode input: %w", err)
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return Result{Issues: []Issue{decodeIssue(err)}}, nil
		}
	}

	if err := s.validate.StructCtx(ctx, out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Result{Issues: structIssues(verrs, reflect.TypeOf(out))}, nil
		}
		return Result{}, err
	}
	return Result{Value: out}, nil
}

// JSONSchema reflects T into a JSON Schema document.
func (s *StructSchema[T]) JSONSchema() *jsonschema.Schema {
	return jsonschema.Reflect(new(T))
}

// decodeIssue maps a JSON decoding failure onto an issue.
func decodeIssue(err error) Issue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Issue{
			Path:    ParsePath(typeErr.Field),
			Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return Issue{Message: err.Error()}
}
