// Package stache is a micro-templating toolkit.
//
// Templates carry two placeholder forms: {key} inserts a value verbatim and
// {{key}} inserts it HTML-escaped. Keys are dot paths into arbitrary data.
// Each subpackage can be used on its own:
//
//   - template: scanning, substitution, transforms and the Engine
//   - schema: the validator contract plus struct and rule adapters
//   - keypath: nested lookup with a missing-value marker
//   - escape: HTML escaping and sanitizing escapers
//   - datafile: JSON, YAML and TOML data documents
//   - config: settings for the stache command
//   - watch: re-running work when files change
//
// # Quick Start
//
//	import "github.com/randalmurphal/stache/template"
//
//	out, err := template.Execute("Hello {{name}}!", map[string]any{"name": "<Ada>"})
//	// out: "Hello &lt;Ada&gt;!"
//
// With validation:
//
//	rules, _ := schema.Rules(map[string]string{"email": "required,email"})
//	out, err := template.Render(ctx, "Contact: {email}", rules, data)
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//	    // fix the data
//	}
//
// A render either returns the whole string or an error; there is no partial
// output.
package stache
