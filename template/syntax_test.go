package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{a} {{b.c}} {{{d}}} { e } {0}")

	want := []Placeholder{
		{Key: "a", Class: Raw, Start: 0, End: 3, Text: "{a}"},
		{Key: "b.c", Class: Escaped, Start: 4, End: 11, Text: "{{b.c}}"},
		{Key: "d", Class: Escaped, Start: 13, End: 18, Text: "{{d}}"},
		{Key: "0", Class: Raw, Start: 26, End: 29, Text: "{0}"},
	}
	assert.Equal(t, want, got)
}

func TestPlaceholders_None(t *testing.T) {
	assert.Empty(t, Placeholders("plain {text with} braces {{ }}"))
	assert.Empty(t, Placeholders(""))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"greeting", "name", "user.id"},
		Keys("{{greeting}}, {name}! {{name}} #{user.id} {greeting}"))
}

func TestMissingKeys(t *testing.T) {
	data := map[string]any{"a": 1, "b": map[string]any{"c": nil}}
	assert.Equal(t, []string{"x", "b.d"}, MissingKeys("{a} {{x}} {b.c} {b.d} {x}", data))
	assert.Nil(t, MissingKeys("{a}", data))
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "raw", Raw.String())
	assert.Equal(t, "escaped", Escaped.String())
}

func TestSubstitute_SkipsEscapedPassWithoutDoubleBrace(t *testing.T) {
	var classes []Class
	out, err := substitute("{a} and {b}", func(p Placeholder) (string, error) {
		classes = append(classes, p.Class)
		return strings.ToUpper(p.Key), nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "A and B", out)
	assert.Equal(t, []Class{Raw, Raw}, classes)
}

func TestSubstitute_CaseInsensitiveIdentifier(t *testing.T) {
	out, err := substitute("{ABC} {{Xyz.Q}}", func(p Placeholder) (string, error) {
		return "[" + p.Key + "]", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "[ABC] [Xyz.Q]", out)
}

func TestSubstitute_LongAdversarialInput(t *testing.T) {
	tmpl := strings.Repeat("{", 10000) + "a" + strings.Repeat("}", 10000)
	out, err := substitute(tmpl, func(p Placeholder) (string, error) {
		return "X", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, strings.Repeat("{", 9998)+"X"+strings.Repeat("}", 9998), out)
}

func TestSubstitute_EmptyPathSegmentsAreText(t *testing.T) {
	tests := []string{"{a.}", "{{a.}}", "{a..b}", "{{a..b}}", "{.a}", "{a.b.}"}
	data := map[string]any{"a": map[string]any{"b": 1}}
	for _, tmpl := range tests {
		t.Run(tmpl, func(t *testing.T) {
			assert.Empty(t, Placeholders(tmpl))
			out, err := Execute(tmpl, data)
			assert.NoError(t, err)
			assert.Equal(t, tmpl, out)
		})
	}
}
