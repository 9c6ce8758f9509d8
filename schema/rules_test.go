package schema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Pass(t *testing.T) {
	s, err := Rules(map[string]string{
		"user.email": "required,email",
		"user.age":   "omitempty,gte=18",
		"nickname":   "omitempty,min=2",
	})
	require.NoError(t, err)

	data := map[string]any{"user": map[string]any{"email": "ada@example.com", "age": 36}}
	got, err := Validate(context.Background(), s, data)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestRules_Issues(t *testing.T) {
	s, err := Rules(map[string]string{
		"user.email": "required,email",
		"user.name":  "required",
		"tags.0":     "min=3",
		"optional":   "min=3",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"optional", "tags.0", "user.email", "user.name"}, s.Keys())

	_, err = Validate(context.Background(), s, map[string]any{
		"user": map[string]any{"email": "nope"},
		"tags": []any{"go"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	want := []Issue{
		{Path: []any{"tags", "0"}, Message: "must be at least 3"},
		{Path: []any{"user", "email"}, Message: "must be a valid email address"},
		{Path: []any{"user", "name"}, Message: "is required"},
	}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestRules_ExplicitNilIsPresent(t *testing.T) {
	s, err := Rules(map[string]string{"name": "required"})
	require.NoError(t, err)

	_, err = Validate(context.Background(), s, map[string]any{"name": nil})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, []any{"name"}, verr.Issues[0].Path)
}

func TestRules_InvalidTag(t *testing.T) {
	_, err := Rules(map[string]string{"name": "definitely_not_a_tag"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "name"`)
}

func TestRules_EmptyKey(t *testing.T) {
	_, err := Rules(map[string]string{"": "required"})
	require.Error(t, err)
}

func TestRules_DoesNotAliasInput(t *testing.T) {
	in := map[string]string{"a": "required"}
	s, err := Rules(in)
	require.NoError(t, err)
	in["b"] = "required"

	_, err = Validate(context.Background(), s, map[string]any{"a": "x"})
	assert.NoError(t, err)
}

func TestRules_ValidNumericAndDiveTags(t *testing.T) {
	tags := map[string]string{
		"price":  "gte=0.5",
		"tags":   "dive,required",
		"emails": "required,dive,email",
		"counts": "omitempty,dive,gte=1",
	}
	s, err := Rules(tags)
	require.NoError(t, err)

	_, err = Validate(context.Background(), s, map[string]any{
		"price":  1.5,
		"tags":   []any{"a", "b"},
		"emails": []any{"ada@example.com"},
		"counts": []any{1.0, 2.0},
	})
	require.NoError(t, err)

	_, err = Validate(context.Background(), s, map[string]any{
		"price":  0.25,
		"tags":   []any{"a", ""},
		"emails": []any{"ada@example.com"},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	want := []Issue{
		{Path: []any{"price"}, Message: "must be greater than or equal to 0.5"},
		{Path: []any{"tags", 1}, Message: "is required"},
	}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestRules_KindMismatchIsAnIssue(t *testing.T) {
	s, err := Rules(map[string]string{"name": "dive,required"})
	require.NoError(t, err)

	_, err = Validate(context.Background(), s, map[string]any{"name": "ada"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, []any{"name"}, verr.Issues[0].Path)
	assert.Contains(t, verr.Issues[0].Message, `cannot apply "dive,required" to string`)
}

func TestRules_MalformedTags(t *testing.T) {
	tests := []struct {
		name string
		tag  string
	}{
		{name: "undefined", tag: "required,no_such_check"},
		{name: "keys without dive", tag: "keys,required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rules(map[string]string{"x": tt.tag})
			assert.ErrorContains(t, err, "invalid tag")
		})
	}
}
