package datafile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": JSON, ".JSON": JSON, "yaml": YAML, "yml": YAML, ".toml": TOML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("/tmp/data.yml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = FormatOf("Makefile")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
		want   any
	}{
		{
			name:   "json",
			format: JSON,
			doc:    `{"user": {"name": "Ada", "age": 36}, "tags": ["a", "b"]}`,
			want: map[string]any{
				"user": map[string]any{"name": "Ada", "age": 36.0},
				"tags": []any{"a", "b"},
			},
		},
		{
			name:   "yaml",
			format: YAML,
			doc:    "user:\n  name: Ada\n  age: 36\ntags: [a, b]\n",
			want: map[string]any{
				"user": map[string]any{"name": "Ada", "age": 36},
				"tags": []any{"a", "b"},
			},
		},
		{
			name:   "toml",
			format: TOML,
			doc:    "tags = [\"a\", \"b\"]\n\n[user]\nname = \"Ada\"\nage = 36\n",
			want: map[string]any{
				"user": map[string]any{"name": "Ada", "age": int64(36)},
				"tags": []any{"a", "b"},
			},
		},
		{name: "empty json", format: JSON, doc: "  ", want: map[string]any{}},
		{name: "empty yaml", format: YAML, doc: "", want: map[string]any{}},
		{name: "empty toml", format: TOML, doc: "", want: map[string]any{}},
		{name: "json array", format: JSON, doc: `["x", "y"]`, want: []any{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.doc), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("{"), JSON)
	assert.ErrorContains(t, err, "decode json")

	_, err = Decode(strings.NewReader("a: [1"), YAML)
	assert.ErrorContains(t, err, "decode yaml")

	_, err = Decode(strings.NewReader("a = "), TOML)
	assert.ErrorContains(t, err, "decode toml")

	_, err = Decode(strings.NewReader(""), Format("ini"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada\n"), 0644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada"}, got)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestReadStringMap(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(good, []byte("user.email: required,email\nage: omitempty,gte=18\n"), 0644))
	rules, err := ReadStringMap(good)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user.email": "required,email", "age": "omitempty,gte=18"}, rules)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("age: 18\n"), 0644))
	_, err = ReadStringMap(bad)
	assert.ErrorContains(t, err, "must be a string")

	list := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(list, []byte(`["a"]`), 0644))
	_, err = ReadStringMap(list)
	assert.ErrorContains(t, err, "expected a mapping")
}
