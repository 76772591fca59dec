// Package markdown turns the small Markdown dialect used by local posts
// into markup node trees.
package markdown

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/markup"
)

var reOrderedItem = regexp.MustCompile(`^\d+\.\s`)

// Component renders md as a templ component.
func Component(md string) templ.Component {
	return markup.Component(Parse(md)...)
}

// HTML renders md to an HTML string.
func HTML(md string) string {
	var b strings.Builder
	for _, n := range Parse(md) {
		b.WriteString(n.String())
	}
	return b.String()
}

// parser accumulates block nodes. At most one open container (paragraph,
// list, quote, or code) exists at a time.
type parser struct {
	out  []*markup.Node
	open *markup.Node
	kind string

	code     []string
	codeLang string
}

func (p *parser) flush() {
	if p.kind == "code" {
		p.out = append(p.out, codeBlock(p.codeLang, p.code))
		p.code, p.codeLang = nil, ""
	} else if p.open != nil {
		p.out = append(p.out, p.open)
	}
	p.open, p.kind = nil, ""
}

// container returns the open block of kind, starting a new one if needed.
func (p *parser) container(kind, tag string) *markup.Node {
	if p.kind != kind {
		p.flush()
		p.open, p.kind = markup.El(tag), kind
	}
	return p.open
}

// Parse converts md to block-level nodes.
func Parse(md string) []*markup.Node {
	p := &parser{}
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if p.kind == "code" {
				p.flush()
			} else {
				p.flush()
				p.kind = "code"
				p.codeLang = strings.TrimSpace(line[3:])
			}
			continue
		}
		if p.kind == "code" {
			p.code = append(p.code, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			p.flush()
		case strings.HasPrefix(line, "---"):
			p.flush()
			p.out = append(p.out, markup.El("hr"))
		case strings.HasPrefix(line, "### "):
			p.flush()
			p.out = append(p.out, markup.El("h3", Inline(strings.TrimSpace(line[4:]))...))
		case strings.HasPrefix(line, "## "):
			p.flush()
			p.out = append(p.out, markup.El("h2", Inline(strings.TrimSpace(line[3:]))...))
		case strings.HasPrefix(line, "# "):
			p.flush()
			p.out = append(p.out, markup.El("h1", Inline(strings.TrimSpace(line[2:]))...))
		case strings.HasPrefix(line, "- "):
			p.container("ul", "ul").Append(markup.El("li", Inline(strings.TrimSpace(line[2:]))...))
		case reOrderedItem.MatchString(line):
			item := reOrderedItem.ReplaceAllString(line, "")
			p.container("ol", "ol").Append(markup.El("li", Inline(strings.TrimSpace(item))...))
		case strings.HasPrefix(line, "> "):
			q := p.container("quote", "blockquote")
			if len(q.Children) > 0 {
				q.Append(markup.Text(" "))
			}
			q.Append(Inline(strings.TrimSpace(line[2:]))...)
		default:
			para := p.container("p", "p")
			if len(para.Children) > 0 {
				para.Append(markup.Text(" "))
			}
			para.Append(Inline(trimmed)...)
		}
	}
	p.flush()
	return p.out
}

func codeBlock(lang string, lines []string) *markup.Node {
	code := markup.El("code", markup.Text(strings.Join(lines, "\n")))
	if lang == "" {
		return markup.El("pre", code).Class("code-block")
	}
	code.Class("language-" + lang)
	return markup.El("div",
		markup.El("span", markup.Text(lang)).Class("code-lang", "code-lang-"+lang),
		markup.El("pre", code).Class("code-block"),
	).Class("code-block-wrapper")
}

// Inline converts emphasis, code spans, links, and images in s.
func Inline(s string) []*markup.Node {
	var out []*markup.Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, markup.Text(text.String()))
			text.Reset()
		}
	}
	emit := func(n ...*markup.Node) {
		flush()
		out = append(out, n...)
	}

	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case rest[0] == '`':
			if j := strings.IndexByte(rest[1:], '`'); j > 0 {
				emit(markup.El("code", markup.Text(rest[1:1+j])))
				i += j + 2
				continue
			}
		case strings.HasPrefix(rest, "**"), strings.HasPrefix(rest, "__"):
			if j := strings.Index(rest[2:], rest[:2]); j > 0 {
				emit(markup.El("strong", Inline(rest[2:2+j])...))
				i += j + 4
				continue
			}
		case rest[0] == '*', rest[0] == '_':
			if j := strings.IndexByte(rest[1:], rest[0]); j > 0 {
				emit(markup.El("em", Inline(rest[1:1+j])...))
				i += j + 2
				continue
			}
		case strings.HasPrefix(rest, "!["):
			if label, href, n, ok := linkParts(rest[1:]); ok {
				if src := safeURL(href); src != "" {
					emit(markup.El("img").Attr("src", src).Attr("alt", label).Attr("loading", "lazy").Attr("decoding", "async"))
				} else {
					emit(markup.Text(label))
				}
				i += n + 1
				continue
			}
		case rest[0] == '[':
			if label, href, n, ok := linkParts(rest); ok {
				target := safeURL(href)
				if target == "" {
					emit(Inline(label)...)
				} else {
					a := markup.El("a", Inline(label)...).Attr("href", target).Class("underline")
					if n < len(rest) && rest[n] == '^' {
						a.Attr("target", "_blank").Attr("rel", "noopener noreferrer")
						n++
					}
					emit(a)
				}
				i += n
				continue
			}
		}
		text.WriteByte(s[i])
		i++
	}
	flush()
	return out
}

// linkParts splits "[label](href)" at the start of s and returns the
// number of bytes consumed.
func linkParts(s string) (label, href string, n int, ok bool) {
	mid := strings.Index(s, "](")
	if !strings.HasPrefix(s, "[") || mid < 0 {
		return "", "", 0, false
	}
	end := strings.IndexByte(s[mid+2:], ')')
	if end < 0 {
		return "", "", 0, false
	}
	return s[1:mid], s[mid+2 : mid+2+end], mid + 3 + end, true
}

// safeURL allows relative links and a short list of schemes.
func safeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
