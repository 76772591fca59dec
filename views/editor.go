package views

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/carousel"
	"github.com/eringen/storycarousel/markup"
)

// EditorPage is the block editor: a settings form generated from the field
// schema beside the live preview. editor.js posts every change and mounts
// the returned node tree in place of the server-rendered one.
func EditorPage(site Site, e Editor, csrfToken string) templ.Component {
	p := page{
		Title:   e.Name,
		Styles:  []string{"/public/carousel.css"},
		Scripts: []string{"/public/carousel.js", "/public/editor.js"},
		Meta:    map[string]string{"csrf-token": csrfToken},
		Admin:   true,
	}

	preview := markup.El("div", e.Preview.Tree).
		Attr("id", "sc-preview").
		Attr("data-generation", strconv.FormatUint(e.Preview.Generation, 10)).
		Attr("data-loading", strconv.FormatBool(e.Preview.Loading)).
		Class("editor-preview")

	base := "/admin/blocks/" + e.BlockID + "/"
	body := markup.El("div",
		markup.El("h1", markup.Text(e.Name)),
		markup.El("p",
			link("View published", "/blocks/"+e.BlockID+"/"),
			markup.Text(" "),
			link("Embed fragment", "/blocks/"+e.BlockID+"/fragment/"),
		),
		postForm(base+"rename/", csrfToken,
			labeled("Name", textInput("name", e.Name)),
			button("Rename"),
		).Class("inline"),
		markup.El("div",
			settingsForm(e, base),
			markup.El("div",
				preview,
				markup.El("button", markup.Text("Refresh posts")).
					Attr("type", "button").
					Attr("id", "sc-refresh").
					Attr("data-url", base+"refresh/"),
			),
		).Class("editor"),
	)
	return layout(site, p, markup.Component(body))
}

func settingsForm(e Editor, base string) *markup.Node {
	form := markup.El("form").
		Attr("id", "sc-settings").
		Attr("data-attributes-url", base+"attributes/").
		Attr("data-preview-url", base+"preview/").
		Class("editor-settings")

	var panel *markup.Node
	current := ""
	for _, f := range carousel.Fields {
		if f.Panel != current || panel == nil {
			current = f.Panel
			panel = markup.El("fieldset", markup.El("legend", markup.Text(f.Panel)))
			form.Append(panel)
		}
		panel.Append(labeled(f.Label, fieldInput(f, e)))
	}
	return form
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fieldInput builds the control for f. Every control carries the field key
// as its name and its kind in data-kind so editor.js can send numbers as
// numbers.
func fieldInput(f carousel.Field, e Editor) *markup.Node {
	value := fmt.Sprint(f.Value(e.Config))
	var in *markup.Node
	switch f.Kind {
	case carousel.KindInt, carousel.KindFloat:
		in = markup.El("input").
			Attr("type", "number").
			Attr("min", formatFloat(f.Min)).
			Attr("max", formatFloat(f.Max)).
			Attr("step", formatFloat(f.Step)).
			Attr("value", value).
			Attr("data-kind", "number")
	case carousel.KindColor:
		in = markup.El("input").Attr("type", "color").Attr("value", value)
	case carousel.KindEnum:
		opts := make([]Option, 0, len(f.Options))
		for _, o := range f.Options {
			opts = append(opts, Option{Value: o, Label: o})
		}
		in = selectInput(f.Key, value, opts)
	case carousel.KindContentType:
		opts := make([]Option, 0, len(e.Types))
		found := false
		for _, t := range e.Types {
			opts = append(opts, Option{Value: t.Name, Label: t.Label})
			found = found || t.Name == value
		}
		if !found {
			opts = append(opts, Option{Value: value, Label: value})
		}
		in = selectInput(f.Key, value, opts)
	default:
		in = markup.El("input").Attr("type", "text").Attr("value", value)
	}
	return in.Attr("name", f.Key)
}
