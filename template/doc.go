// Package template renders micro-templates with two placeholder syntaxes.
//
// # Syntax
//
// Escaped placeholders use double braces and are HTML-escaped:
//
//	<p>{{comment}}</p>
//
// Raw placeholders use single braces and are inserted verbatim:
//
//	<div class="{theme}">{bodyHTML}</div>
//
// A key is either a run of digits ({0}) or an identifier made of letters,
// digits, "_", "-" and "$" that does not start with a digit, optionally
// followed by dot-separated segments ({user.profile.name}, {items.0}).
// Braces that do not form a placeholder ({ name }, {{ name }}, {1a}) are
// left as they are.
//
// # Substitution
//
// Escaped placeholders are replaced first, then raw placeholders in the
// remaining template text. Inserted values are never scanned again, so data
// containing "{x}" stays literal:
//
//	template.Execute("Value: {t}", map[string]any{"t": "Hello {world}"})
//	// "Value: Hello {world}"
//
// Values are stringified before insertion: numbers in shortest decimal form,
// booleans as true/false, nil as null, slices joined with "," and maps or
// structs as compact JSON.
//
// # Missing values
//
// A key that does not resolve (or that a transform turns into
// keypath.Absent) fails the render with a *MissingValueError naming the
// key. WithIgnoreMissing(true) leaves such placeholders in the output
// instead. An explicit nil value is present and renders as "null".
//
// # Validation
//
// Render runs a schema.Schema over the data before substituting. Issues
// abort the call with a *schema.ValidationError and no output:
//
//	rules, _ := schema.Rules(map[string]string{"name": "required"})
//	out, err := template.Render(ctx, "Hello {{name}}!", rules, data)
//
// Execute skips validation for data that is already trusted.
//
// # Transforms
//
// WithTransform installs a per-call hook that sees every resolved value and
// its key. Built-ins (Upper, Lower, Trim, JSON, Truncate, Default) can be
// combined with Chain and scoped with OnlyKeys.
//
// An Engine holds no per-render state and is safe for concurrent use.
package template
