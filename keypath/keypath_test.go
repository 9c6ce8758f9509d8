package keypath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Age     int
	Secret  string `json:"-"`
	private string
}

type account struct {
	Profile *profile          `json:"profile"`
	Tags    []string          `json:"tags"`
	Labels  map[string]string `json:"labels"`
}

func TestLookup(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{
			"profile": map[string]any{"name": "Alice"},
		},
		"items":   []any{"a", "b", map[string]any{"id": 7}},
		"nothing": nil,
		"0":       "zero",
		"count":   3,
		"account": account{
			Profile: &profile{Name: "Bob", Age: 41, Secret: "s", private: "p"},
			Tags:    []string{"x", "y"},
			Labels:  map[string]string{"env": "prod"},
		},
		"nilProfile": account{},
	}

	tests := []struct {
		name string
		key  string
		want any
	}{
		{name: "top level", key: "count", want: 3},
		{name: "nested map", key: "user.profile.name", want: "Alice"},
		{name: "slice index", key: "items.1", want: "b"},
		{name: "map inside slice", key: "items.2.id", want: 7},
		{name: "explicit nil is present", key: "nothing", want: nil},
		{name: "digit key on map is literal", key: "0", want: "zero"},
		{name: "struct json tag", key: "account.profile.name", want: "Bob"},
		{name: "struct field name fallback", key: "account.profile.Age", want: 41},
		{name: "typed slice", key: "account.tags.0", want: "x"},
		{name: "typed map", key: "account.labels.env", want: "prod"},
		{name: "missing top level", key: "missing", want: Absent},
		{name: "missing nested", key: "user.profile.email", want: Absent},
		{name: "through nil", key: "nothing.deeper", want: Absent},
		{name: "through scalar", key: "count.value", want: Absent},
		{name: "index out of range", key: "items.9", want: Absent},
		{name: "non numeric index", key: "items.first", want: Absent},
		{name: "padded index", key: "items.01", want: Absent},
		{name: "json dash hidden", key: "account.profile.Secret", want: Absent},
		{name: "unexported hidden", key: "account.profile.private", want: Absent},
		{name: "nil pointer", key: "nilProfile.profile.name", want: Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(data, tt.key))
		})
	}
}

type base struct {
	ID      int    `json:"id"`
	Created string `json:"created"`
}

type Audit struct {
	By   string `json:"by"`
	Note string
}

type member struct {
	base
	*Audit
	Name    string `json:"name"`
	Created string `json:"created"` // shadows base.Created
}

type doubled struct {
	Audit
	Other Audit `json:"other"`
	Alt   struct {
		By string `json:"by"`
	} `json:"-"`
}

type clashA struct {
	Key string `json:"key"`
}

type clashB struct {
	Key string `json:"key"`
}

type clash struct {
	clashA
	clashB
}

func TestLookup_EmbeddedStructs(t *testing.T) {
	m := member{
		base:    base{ID: 7, Created: "base"},
		Audit:   &Audit{By: "ops", Note: "n"},
		Name:    "a",
		Created: "top",
	}

	tests := []struct {
		name string
		data any
		key  string
		want any
	}{
		{name: "promoted json name", data: m, key: "id", want: 7},
		{name: "promoted through pointer", data: m, key: "by", want: "ops"},
		{name: "promoted untagged", data: m, key: "Note", want: "n"},
		{name: "pointer to struct", data: &m, key: "id", want: 7},
		{name: "shallow field wins", data: m, key: "created", want: "top"},
		{name: "own field", data: m, key: "name", want: "a"},
		{name: "go name of promoted field", data: m, key: "ID", want: 7},
		{name: "nil embedded pointer", data: member{Name: "a"}, key: "by", want: Absent},
		{name: "embedded value", data: doubled{Audit: Audit{By: "x"}}, key: "by", want: "x"},
		{name: "named struct field", data: doubled{Other: Audit{By: "y"}}, key: "other.by", want: "y"},
		{name: "ambiguous name", data: clash{clashA{"a"}, clashB{"b"}}, key: "key", want: Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.data, tt.key))
		})
	}
}

func TestLookup_MatchesJSONNames(t *testing.T) {
	m := member{base: base{ID: 7, Created: "base"}, Audit: &Audit{By: "ops"}, Name: "a", Created: "top"}
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	var encoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &encoded))

	assert.Equal(t, map[string]any{
		"id": 7.0, "created": "top", "by": "ops", "Note": "", "name": "a",
	}, encoded)
	for key := range encoded {
		assert.False(t, IsAbsent(Lookup(m, key)), "key %q", key)
	}
}

func TestLookup_NilRoot(t *testing.T) {
	assert.True(t, IsAbsent(Lookup(nil, "a")))
}

func TestResolve(t *testing.T) {
	v, ok := Resolve(map[string]any{"a": nil}, "a")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = Resolve(map[string]any{}, "a")
	assert.False(t, ok)
}

func TestIsAbsent(t *testing.T) {
	assert.True(t, IsAbsent(Absent))
	assert.False(t, IsAbsent(nil))
	assert.False(t, IsAbsent(""))
	assert.Equal(t, "<absent>", Absent.(interface{ String() string }).String())
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Split("a.b.c"))
	assert.Equal(t, []string{"name"}, Split("name"))
}
