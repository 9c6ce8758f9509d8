// Package escape provides the escaping primitives applied to {{key}}
// placeholders.
package escape

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Escaper transforms a substituted value before it is written to output.
type Escaper func(string) string

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// HTML escapes the five HTML-significant characters.
// It is not idempotent: "&amp;" becomes "&amp;amp;".
func HTML(s string) string {
	return htmlReplacer.Replace(s)
}

// None returns s unchanged.
func None(s string) string {
	return s
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// Sanitize returns an Escaper that strips all markup using bluemonday's
// strict policy and escapes the remaining text.
func Sanitize() Escaper {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy.Sanitize
}

// Names lists the escapers accepted by ByName.
var Names = []string{"html", "none", "strict"}

// ByName returns the named escaper. The empty name selects HTML.
func ByName(name string) (Escaper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "html":
		return HTML, nil
	case "none", "raw":
		return None, nil
	case "strict", "sanitize":
		return Sanitize(), nil
	default:
		return nil, fmt.Errorf("unknown escaper %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}
