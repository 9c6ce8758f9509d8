package template

import (
	"regexp"
	"strings"
)

// Class distinguishes the two placeholder syntaxes.
type Class int

const (
	// Raw placeholders ({key}) are inserted verbatim.
	Raw Class = iota

	// Escaped placeholders ({{key}}) are passed through the escaper.
	Escaped
)

// String returns "raw" or "escaped".
func (c Class) String() string {
	if c == Escaped {
		return "escaped"
	}
	return "raw"
}

// Placeholder is one occurrence of a placeholder in a template.
type Placeholder struct {
	Key   string // key path as written
	Class Class
	Start int    // byte offset of the opening brace
	End   int    // byte offset just past the closing brace
	Text  string // the placeholder as it appears in the template
}

// keyPattern matches a digit-only key or a dotted identifier path.
const keyPattern = `\d+|[a-z$_][\w$-]*(?:\.[\w$-]+)*`

var (
	escapedPattern = regexp.MustCompile(`(?i)\{\{(` + keyPattern + `)\}\}`)
	rawPattern     = regexp.MustCompile(`(?i)\{(` + keyPattern + `)\}`)
)

// segment is a run of output. Literal segments hold substituted text and
// are never scanned for placeholders.
type segment struct {
	text    string
	offset  int // position in the template; unused for literals
	literal bool
}

// replaceFunc returns the text that replaces p.
type replaceFunc func(p Placeholder) (string, error)

// substitute runs the escaped pass and then the raw pass over tmpl,
// calling replace for every placeholder in template order within each pass.
// The first error aborts both passes.
func substitute(tmpl string, replace replaceFunc) (string, error) {
	segments, err := escapedPass(tmpl, replace)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(tmpl))
	for _, seg := range segments {
		if seg.literal {
			out.WriteString(seg.text)
			continue
		}
		if err := rawPass(&out, seg, replace); err != nil {
			return "", err
		}
	}
	return out.String(), nil
}

// escapedPass splits tmpl into template text and substituted literals.
func escapedPass(tmpl string, replace replaceFunc) ([]segment, error) {
	if !strings.Contains(tmpl, "{{") {
		return []segment{{text: tmpl}}, nil
	}

	matches := escapedPattern.FindAllStringSubmatchIndex(tmpl, -1)
	segments := make([]segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		p := Placeholder{
			Key:   tmpl[m[2]:m[3]],
			Class: Escaped,
			Start: m[0],
			End:   m[1],
			Text:  tmpl[m[0]:m[1]],
		}
		text, err := replace(p)
		if err != nil {
			return nil, err
		}
		segments = append(segments,
			segment{text: tmpl[last:m[0]], offset: last},
			segment{text: text, literal: true},
		)
		last = m[1]
	}
	return append(segments, segment{text: tmpl[last:], offset: last}), nil
}

// rawPass writes seg to out with raw placeholders replaced.
func rawPass(out *strings.Builder, seg segment, replace replaceFunc) error {
	last := 0
	for _, m := range rawPattern.FindAllStringSubmatchIndex(seg.text, -1) {
		p := Placeholder{
			Key:   seg.text[m[2]:m[3]],
			Class: Raw,
			Start: seg.offset + m[0],
			End:   seg.offset + m[1],
			Text:  seg.text[m[0]:m[1]],
		}
		text, err := replace(p)
		if err != nil {
			return err
		}
		out.WriteString(seg.text[last:m[0]])
		out.WriteString(text)
		last = m[1]
	}
	out.WriteString(seg.text[last:])
	return nil
}
