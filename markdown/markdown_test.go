package markdown

import (
	"context"
	"strings"
	"testing"
)

func inlineHTML(s string) string {
	var b strings.Builder
	for _, n := range Inline(s) {
		b.WriteString(n.String())
	}
	return b.String()
}

func TestInlineEmphasis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"__bold _italic_ text__", "<strong>bold <em>italic</em> text</strong>"},
	}
	for _, tt := range tests {
		if got := inlineHTML(tt.input); got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineCodeIsLiteral(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"`code`", "<code>code</code>"},
		{"use `fmt.Println` here", "use <code>fmt.Println</code> here"},
		{"`a` and `b`", "<code>a</code> and <code>b</code>"},
		{"`**not bold**`", "<code>**not bold**</code>"},
	}
	for _, tt := range tests {
		if got := inlineHTML(tt.input); got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)",
			`<a href="https://en.wikipedia.org/wiki/Some_Article_Title" class="underline">Wikipedia</a>`,
		},
		{
			"Check [this](https://example.com)^ out",
			`Check <a href="https://example.com" class="underline" target="_blank" rel="noopener noreferrer">this</a> out`,
		},
		{"[bad](javascript:void)", "bad"},
	}
	for _, tt := range tests {
		if got := inlineHTML(tt.input); got != tt.expected {
			t.Errorf("Inline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineEscapesText(t *testing.T) {
	got := inlineHTML("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw tag survived: %q", got)
	}
}

func TestParseHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
	}
	for _, tt := range tests {
		if got := HTML(tt.input); got != tt.expected {
			t.Errorf("HTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseLists(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"- item 1\n- item 2", "<ul><li>item 1</li><li>item 2</li></ul>"},
		{"1. first\n2. second\n3. third", "<ol><li>first</li><li>second</li><li>third</li></ol>"},
		{"1. **bold** item\n2. *italic* item", "<ol><li><strong>bold</strong> item</li><li><em>italic</em> item</li></ol>"},
		{"1. item one\n\nsome text", "<ol><li>item one</li></ol><p>some text</p>"},
	}
	for _, tt := range tests {
		if got := HTML(tt.input); got != tt.expected {
			t.Errorf("HTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseParagraphJoinsLines(t *testing.T) {
	got := HTML("first line\nsecond line\n\nnext")
	want := "<p>first line second line</p><p>next</p>"
	if got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestParseCodeBlock(t *testing.T) {
	got := HTML("```\nplain <code>\n```")
	want := `<pre class="code-block"><code>plain &lt;code&gt;</code></pre>`
	if got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}

	got = HTML("```go\nx := 1\n```")
	for _, part := range []string{`class="code-block-wrapper"`, `class="language-go"`, `<span class="code-lang code-lang-go">go</span>`} {
		if !strings.Contains(got, part) {
			t.Errorf("HTML = %q, missing %q", got, part)
		}
	}
}

func TestComponentMatchesHTML(t *testing.T) {
	md := "> quoted\n\n---\n\ntext"
	var b strings.Builder
	if err := Component(md).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	if b.String() != HTML(md) {
		t.Errorf("component %q != html %q", b.String(), HTML(md))
	}
	if n := Parse(md); len(n) != 3 || n[0].Tag != "blockquote" || n[1].Tag != "hr" {
		t.Errorf("unexpected blocks: %+v", n)
	}
}
