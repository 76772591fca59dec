package carousel

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/eringen/storycarousel/markup"
)

const fallback = "/public/img/default-story.jpg"

func sampleItems() []EnrichedItem {
	return []EnrichedItem{
		{
			ContentItem: ContentItem{ID: 1, Link: "https://site.test/one"},
			Media:       &Media{SourceURL: "https://cdn.test/one.jpg", Sizes: map[string]string{PresetLarge: "https://cdn.test/one-large.jpg"}},
			Author:      &Author{Name: "Ada", AvatarURLs: map[int]string{24: "https://cdn.test/ada.png"}},
			PlainTitle:  "One",
			PlainText:   "The quick brown fox jumps",
		},
		{
			ContentItem: ContentItem{ID: 2, Link: "https://site.test/two"},
			PlainTitle:  "Two",
			PlainText:   "short",
		},
	}
}

func TestBuildEmptyShowsPlaceholderOnly(t *testing.T) {
	html := StaticHTML(NewView(Defaults(), nil, DefaultPresets, fallback))
	if !strings.Contains(html, EmptyMessage) {
		t.Errorf("missing placeholder: %s", html)
	}
	for _, class := range []string{ClassArrow, ClassTrack, ClassCarousel} {
		if strings.Contains(html, class) {
			t.Errorf("empty render contains %q: %s", class, html)
		}
	}
}

func TestBuildCards(t *testing.T) {
	c := Defaults()
	c.DescriptionMaxChars = 10
	tree := Build(NewView(c, sampleItems(), DefaultPresets, fallback))

	cards := tree.Find(ClassCard)
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	style0, _ := cards[0].Get("style")
	if !strings.Contains(style0, "url('https://cdn.test/one-large.jpg')") {
		t.Errorf("card 0 style = %q, want the large rendition", style0)
	}
	if !strings.Contains(style0, "width: 1024px;") || !strings.Contains(style0, "margin: 5px;") {
		t.Errorf("card 0 style = %q", style0)
	}
	style1, _ := cards[1].Get("style")
	if !strings.Contains(style1, "url('"+fallback+"')") {
		t.Errorf("card without image should use the fallback: %q", style1)
	}

	if got := len(tree.Find(ClassAvatar)); got != 1 {
		t.Errorf("avatars = %d, want 1 (second card has no author)", got)
	}
	desc := cards[0].Find(ClassDescription)[0]
	if desc.Children[0].Text != "The quick ..." {
		t.Errorf("description = %q", desc.Children[0].Text)
	}
	if len(tree.Find(ClassPrev)) != 1 || len(tree.Find(ClassNext)) != 1 {
		t.Error("expected one prev and one next control")
	}
	if v, _ := tree.Get("data-scroll-step"); v != "300" {
		t.Errorf("data-scroll-step = %q", v)
	}
	if v, _ := tree.Get("data-drag-multiplier"); v != "3" {
		t.Errorf("data-drag-multiplier = %q", v)
	}
}

func TestCustomSizeIgnoresRegistry(t *testing.T) {
	c := Defaults()
	c.ImageSizePreset = PresetCustom
	c.CustomImageWidth = 200
	c.CustomImageHeight = 400
	reg := PresetMap{PresetCustom: {Width: 9, Height: 9}, PresetLarge: {Width: 9, Height: 9}}
	for _, card := range Build(NewView(c, sampleItems(), reg, fallback)).Find(ClassCard) {
		style, _ := card.Get("style")
		if !strings.Contains(style, "width: 200px;") || !strings.Contains(style, "height: 400px;") {
			t.Errorf("card style = %q", style)
		}
	}
}

func TestStaticEscapesContent(t *testing.T) {
	items := []EnrichedItem{{
		ContentItem: ContentItem{Link: "javascript:alert(1)"},
		Author:      &Author{Name: `"><script>x</script>`, AvatarURLs: map[int]string{24: "https://a.test/x.png"}},
		PlainTitle:  "<img src=x onerror=alert(1)>",
		PlainText:   "a & b",
	}}
	html := StaticHTML(NewView(Defaults(), items, DefaultPresets, fallback))
	for _, bad := range []string{"<script>", "<img src=x", "javascript:"} {
		if strings.Contains(html, bad) {
			t.Errorf("output contains %q: %s", bad, html)
		}
	}
	if !strings.Contains(html, "a &amp; b") {
		t.Errorf("description not escaped: %s", html)
	}
}

func TestStyles(t *testing.T) {
	c := Defaults()
	c.TitleLineHeight = 1.5
	c.Padding = Box{1, 2, 3, 4}
	if got := TitleStyle(c).String(); got != "font-size: 14px; font-family: Arial; color: #ffffff; line-height: 1.5;" {
		t.Errorf("TitleStyle = %q", got)
	}
	if got := ContainerStyle(c).String(); got != "padding: 1px 2px 3px 4px; margin: 10px 10px 10px 10px;" {
		t.Errorf("ContainerStyle = %q", got)
	}
	if got := DescriptionStyle(c).String(); got != "font-size: 12px; font-family: Arial; color: #ffffff; line-height: 1.5;" {
		t.Errorf("DescriptionStyle = %q", got)
	}
}

func TestStaticAndInteractiveAgree(t *testing.T) {
	c := Defaults()
	items := sampleItems()
	var buf bytes.Buffer
	if err := Static(NewView(c, items, DefaultPresets, fallback)).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	p := Interactive(Snapshot{Generation: 3, Config: c, Items: items}, DefaultPresets, fallback)
	if p.Loading || p.Generation != 3 {
		t.Fatalf("preview = %+v", p)
	}
	b, err := json.Marshal(p.Tree)
	if err != nil {
		t.Fatal(err)
	}
	var tree markup.Node
	if err := json.Unmarshal(b, &tree); err != nil {
		t.Fatal(err)
	}
	if tree.String() != buf.String() {
		t.Errorf("preview tree and static markup differ:\n%s\n%s", tree.String(), buf.String())
	}
}

func TestInteractiveLoading(t *testing.T) {
	p := Interactive(Snapshot{Loading: true, Config: Defaults()}, DefaultPresets, fallback)
	if !p.Loading || len(p.Tree.Find(ClassLoading)) != 1 {
		t.Errorf("loading preview = %+v", p.Tree)
	}
}
