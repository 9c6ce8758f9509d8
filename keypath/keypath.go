package keypath

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Separator splits a key path into segments.
const Separator = "."

// absent is the type of the Absent marker. It is unexported so no other
// value can compare equal to Absent.
type absent struct{}

// String makes an accidentally printed Absent recognisable.
func (absent) String() string { return "<absent>" }

// Absent marks a value that could not be resolved. It is distinct from nil,
// which is a present null value.
var Absent any = absent{}

// IsAbsent reports whether v is the Absent marker.
func IsAbsent(v any) bool {
	_, ok := v.(absent)
	return ok
}

// Split returns the segments of a key path.
func Split(key string) []string {
	return strings.Split(key, Separator)
}

// Lookup walks data along key and returns the value found, or Absent.
func Lookup(data any, key string) any {
	current := data
	for _, segment := range Split(key) {
		next, ok := step(current, segment)
		if !ok {
			return Absent
		}
		current = next
	}
	return current
}

// Resolve is Lookup in comma-ok form.
func Resolve(data any, key string) (any, bool) {
	v := Lookup(data, key)
	if IsAbsent(v) {
		return nil, false
	}
	return v, true
}

// step descends one segment into current.
func step(current any, segment string) (any, bool) {
	switch c := current.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		return index(len(c), segment, func(i int) any { return c[i] })
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		return field(rv, segment)
	case reflect.Slice, reflect.Array:
		return index(rv.Len(), segment, func(i int) any { return rv.Index(i).Interface() })
	default:
		return nil, false
	}
}

// index resolves a decimal segment against a sequence of length n.
func index(n int, segment string, at func(int) any) (any, bool) {
	i, err := strconv.Atoi(segment)
	if err != nil || i < 0 || i >= n || segment != strconv.Itoa(i) {
		return nil, false
	}
	return at(i), true
}

// field finds a struct field by its encoding/json name, which includes
// fields promoted from embedded structs, then by Go name.
func field(rv reflect.Value, segment string) (any, bool) {
	for _, f := range jsonFields(rv.Type()) {
		if f.name == segment {
			return fieldValue(rv, f.index)
		}
	}
	if f, ok := rv.Type().FieldByName(segment); ok && f.IsExported() && jsonName(f) != "-" {
		return fieldValue(rv, f.Index)
	}
	return nil, false
}

// fieldValue follows index, failing on a nil embedded pointer.
func fieldValue(rv reflect.Value, index []int) (any, bool) {
	v, err := rv.FieldByIndexErr(index)
	if err != nil || !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

// jsonField is a field as encoding/json sees it.
type jsonField struct {
	name   string
	index  []int
	tagged bool
}

var fieldCache sync.Map // reflect.Type -> []jsonField

// jsonFields lists the fields encoding/json would marshal for t, with
// embedded structs flattened. Name conflicts are settled the same way:
// the shallowest field wins, a tagged field beats untagged ones at the
// same depth, and anything still ambiguous is dropped.
func jsonFields(t reflect.Type) []jsonField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]jsonField)
	}

	var all []jsonField
	collectFields(t, nil, map[reflect.Type]bool{}, &all)

	byName := make(map[string][]jsonField)
	var order []string
	for _, f := range all {
		if _, ok := byName[f.name]; !ok {
			order = append(order, f.name)
		}
		byName[f.name] = append(byName[f.name], f)
	}

	fields := make([]jsonField, 0, len(order))
	for _, name := range order {
		if f, ok := dominant(byName[name]); ok {
			fields = append(fields, f)
		}
	}
	fieldCache.Store(t, fields)
	return fields
}

// collectFields appends the fields of t, descending into untagged
// embedded structs. seen guards against embedding cycles through pointers.
func collectFields(t reflect.Type, index []int, seen map[reflect.Type]bool, out *[]jsonField) {
	if seen[t] {
		return
	}
	seen[t] = true
	defer delete(seen, t)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		embeddedStruct := sf.Anonymous && ft.Kind() == reflect.Struct
		if !sf.IsExported() && !embeddedStruct {
			continue
		}

		name := jsonName(sf)
		if name == "-" {
			continue
		}
		path := append(append([]int(nil), index...), i)
		if name == "" && embeddedStruct {
			collectFields(ft, path, seen, out)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		f := jsonField{name: name, index: path, tagged: name != ""}
		if !f.tagged {
			f.name = sf.Name
		}
		*out = append(*out, f)
	}
}

// dominant returns the field that owns a name, or false when the name is
// ambiguous.
func dominant(fields []jsonField) (jsonField, bool) {
	depth := len(fields[0].index)
	for _, f := range fields[1:] {
		if len(f.index) < depth {
			depth = len(f.index)
		}
	}

	var shallow, tagged []jsonField
	for _, f := range fields {
		if len(f.index) != depth {
			continue
		}
		shallow = append(shallow, f)
		if f.tagged {
			tagged = append(tagged, f)
		}
	}
	switch {
	case len(shallow) == 1:
		return shallow[0], true
	case len(tagged) == 1:
		return tagged[0], true
	default:
		return jsonField{}, false
	}
}

// jsonName returns the json tag name of f, or "" when untagged.
func jsonName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}
