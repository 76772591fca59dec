// Package markup builds HTML as a tree of nodes and writes it with every text
// and attribute value escaped. The same tree can be sent to a browser as JSON
// and mounted with DOM APIs, which is how the editor preview is drawn.
package markup

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Attr is a single element attribute. Order is preserved on output.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node is an element (Tag set) or a text node (Tag empty).
type Node struct {
	Tag      string  `json:"tag,omitempty"`
	Text     string  `json:"text,omitempty"`
	Attrs    []Attr  `json:"attrs,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// El creates an element with the given children. Nil children are skipped.
func El(tag string, children ...*Node) *Node {
	n := &Node{Tag: tag}
	return n.Append(children...)
}

// Text creates a text node.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Textf creates a text node from a format string.
func Textf(format string, args ...interface{}) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Append adds children, skipping nil entries.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Attr sets an attribute, replacing an earlier value with the same key.
func (n *Node) Attr(key, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
	return n
}

// Class sets the class attribute.
func (n *Node) Class(classes ...string) *Node {
	return n.Attr("class", strings.Join(classes, " "))
}

// Style sets the style attribute from an ordered declaration list.
func (n *Node) Style(s Style) *Node {
	if len(s) == 0 {
		return n
	}
	return n.Attr("style", s.String())
}

// Get returns the value of an attribute and whether it was set.
func (n *Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	v, _ := n.Get("class")
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

// Find returns every descendant (including n) carrying the given class.
func (n *Node) Find(class string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(x *Node) {
		if x.Tag != "" && x.HasClass(class) {
			out = append(out, x)
		}
		for _, c := range x.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Render writes the escaped HTML form of n to w.
func (n *Node) Render(w io.Writer) error {
	var buf bytes.Buffer
	n.write(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

// String returns the escaped HTML form of n.
func (n *Node) String() string {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.String()
}

func (n *Node) write(buf *bytes.Buffer) {
	if n.Tag == "" {
		buf.WriteString(html.EscapeString(n.Text))
		return
	}
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(a.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
	if voidElements[n.Tag] {
		return
	}
	if n.Text != "" {
		buf.WriteString(html.EscapeString(n.Text))
	}
	for _, c := range n.Children {
		c.write(buf)
	}
	buf.WriteString("</")
	buf.WriteString(n.Tag)
	buf.WriteByte('>')
}

// Component adapts nodes to a templ.Component so they can be rendered by the
// same helpers as every other page.
func Component(nodes ...*Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		for _, n := range nodes {
			if n != nil {
				n.write(&buf)
			}
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}
