package markup

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// Decl is one CSS declaration.
type Decl struct {
	Prop  string
	Value string
}

// Style is an ordered list of declarations.
type Style []Decl

// Add appends a declaration.
func (s Style) Add(prop, value string) Style {
	return append(s, Decl{Prop: prop, Value: value})
}

// Px appends a pixel-valued declaration.
func (s Style) Px(prop string, v int) Style {
	return s.Add(prop, fmt.Sprintf("%dpx", v))
}

// String renders the declarations as "prop: value;" pairs.
func (s Style) String() string {
	var b strings.Builder
	for i, d := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Prop)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// Value returns the value of prop and whether it is present.
func (s Style) Value(prop string) (string, bool) {
	for _, d := range s {
		if d.Prop == prop {
			return d.Value, true
		}
	}
	return "", false
}

// SafeURL runs u through templ's URL sanitiser. Anything that is not http,
// https, mailto, tel, or relative comes back as templ's failure marker.
func SafeURL(u string) string {
	return string(templ.URL(strings.TrimSpace(u)))
}

// CSSURL returns a url('...') value for u with the characters that could end
// the string or the declaration escaped.
func CSSURL(u string) string {
	u = SafeURL(u)
	var b strings.Builder
	b.WriteString("url('")
	for _, r := range u {
		switch r {
		case '\'', '"', '\\', '(', ')', ';', '<', '>', '\n', '\r', '\f':
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("')")
	return b.String()
}
