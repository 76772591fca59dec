package carousel

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/markup"
)

// View is everything a renderer needs for one block.
type View struct {
	Config        Config
	Items         []EnrichedItem
	Dimensions    Dimensions
	FallbackImage string
}

// NewView resolves the card size for c and pairs it with items.
func NewView(c Config, items []EnrichedItem, reg PresetRegistry, fallbackImage string) View {
	return View{
		Config:        c,
		Items:         items,
		Dimensions:    ResolveDimensions(c, reg),
		FallbackImage: fallbackImage,
	}
}

// Build returns the carousel tree. Both the published page and the editor
// preview are drawn from it.
func Build(v View) *markup.Node {
	if len(v.Items) == 0 {
		return markup.El("p", markup.Text(EmptyMessage)).Class(ClassEmpty)
	}
	track := markup.El("div").Class(ClassTrack)
	for i, item := range v.Items {
		track.Append(buildCard(v, i, item))
	}
	return markup.El("div",
		track,
		markup.El("div", markup.Text("‹")).
			Class(ClassArrow, ClassPrev).
			Attr("role", "button").
			Attr("tabindex", "0").
			Attr("aria-label", "Previous"),
		markup.El("div", markup.Text("›")).
			Class(ClassArrow, ClassNext).
			Attr("role", "button").
			Attr("tabindex", "0").
			Attr("aria-label", "Next"),
	).
		Class(ClassCarousel).
		Style(ContainerStyle(v.Config)).
		Attr("data-scroll-step", strconv.Itoa(ScrollStep)).
		Attr("data-drag-multiplier", strconv.Itoa(DragMultiplier))
}

func buildCard(v View, index int, item EnrichedItem) *markup.Node {
	c := v.Config
	var avatar *markup.Node
	if u := item.AvatarURL(); u != "" {
		avatar = markup.El("img").
			Class(ClassAvatar).
			Attr("src", markup.SafeURL(u)).
			Attr("alt", item.Author.Name).
			Attr("width", "30").
			Attr("height", "30")
	}
	info := markup.El("a",
		avatar,
		markup.El("div", markup.Text(item.PlainTitle)).Class(ClassTitle).Style(TitleStyle(c)),
	).Class(ClassCardInfo).Attr("href", markup.SafeURL(item.Link))

	return markup.El("div",
		info,
		markup.El("div", markup.Text(item.Description(c.DescriptionMaxChars))).
			Class(ClassDescription).
			Style(DescriptionStyle(c)),
	).
		Class(ClassCard).
		Attr("data-index", strconv.Itoa(index)).
		Style(CardStyle(c, v.Dimensions, item.ImageURL(c.ImageSizePreset, v.FallbackImage)))
}

// Static renders the published markup.
func Static(v View) templ.Component {
	return markup.Component(Build(v))
}

// StaticHTML returns the published markup as a string.
func StaticHTML(v View) string {
	return Build(v).String()
}

// Preview is the editor's copy of a render, sent as JSON and mounted by the
// editor script with DOM calls.
type Preview struct {
	Generation uint64       `json:"generation"`
	Loading    bool         `json:"loading"`
	Tree       *markup.Node `json:"tree"`
}

// Interactive builds the editor preview for s. While a fetch is running the
// tree is a loading indicator.
func Interactive(s Snapshot, reg PresetRegistry, fallbackImage string) Preview {
	p := Preview{Generation: s.Generation, Loading: s.Loading}
	if s.Loading {
		p.Tree = markup.El("div",
			markup.El("span").Class("sc-spinner").Attr("aria-hidden", "true"),
			markup.El("span", markup.Text("Loading posts")).Class("sc-visually-hidden"),
		).Class(ClassLoading).Attr("role", "status")
		return p
	}
	p.Tree = Build(NewView(s.Config, s.Items, reg, fallbackImage))
	return p
}
