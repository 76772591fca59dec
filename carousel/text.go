package carousel

import (
	"strings"

	"golang.org/x/net/html"
)

// Ellipsis is appended to truncated descriptions.
const Ellipsis = "..."

// StripTags returns the text content of an HTML fragment with entities
// decoded. Script and style bodies are dropped. Runs of whitespace collapse to
// a single space.
func StripTags(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts text to max characters and appends Ellipsis when it is
// longer than max. Characters are counted as code points, not words.
func Truncate(text string, max int) string {
	if max < 0 {
		max = 0
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i] + Ellipsis
		}
		n++
	}
	return text
}
