// Package keypath resolves dot-separated key paths against nested data.
//
// A key path such as "user.profile.name" is split on "." and walked one
// segment at a time. Maps are indexed by segment, structs by their json tag
// name (falling back to the Go field name), and slices or arrays by decimal
// index:
//
//	data := map[string]any{"user": map[string]any{"tags": []string{"a", "b"}}}
//	keypath.Lookup(data, "user.tags.1") // "b"
//	keypath.Lookup(data, "user.email")  // keypath.Absent
//
// Lookup never panics and never returns an error. Any missing branch yields
// Absent, which is distinct from a present nil value.
package keypath
