package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/markup"
)

// page describes the shell around a page body.
type page struct {
	Title   string
	Scripts []string
	Styles  []string
	Meta    map[string]string
	Admin   bool
}

func (p page) head(site Site) *markup.Node {
	title := site.Name
	if p.Title != "" {
		title = p.Title + " | " + site.Name
	}
	head := markup.El("head",
		markup.El("meta").Attr("charset", "utf-8"),
		markup.El("meta").Attr("name", "viewport").Attr("content", "width=device-width, initial-scale=1"),
		markup.El("title", markup.Text(title)),
		markup.El("link").Attr("rel", "stylesheet").Attr("href", "/public/site.css"),
	)
	for _, href := range p.Styles {
		head.Append(markup.El("link").Attr("rel", "stylesheet").Attr("href", href))
	}
	for name, content := range p.Meta {
		head.Append(markup.El("meta").Attr("name", name).Attr("content", content))
	}
	for _, src := range p.Scripts {
		head.Append(markup.El("script").Attr("src", src).Attr("defer", ""))
	}
	return head
}

func (p page) header(site Site) *markup.Node {
	nav := markup.El("nav")
	if p.Admin {
		nav.Append(markup.El("a", markup.Text("Dashboard")).Attr("href", "/admin/"))
	}
	return markup.El("header",
		markup.El("a", markup.Text(site.Name)).Attr("href", "/").Class("site-name"),
		nav,
	).Class("site-header")
}

// layout wraps body in the document shell. The head and header are markup
// trees; body may be any component.
func layout(site Site, p page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en">`); err != nil {
			return err
		}
		if err := p.head(site).Render(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<body>"); err != nil {
			return err
		}
		if err := p.header(site).Render(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="site-main">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

// join renders components in order.
func join(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range parts {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func csrfField(token string) *markup.Node {
	return markup.El("input").Attr("type", "hidden").Attr("name", "_csrf").Attr("value", token)
}

// postForm is a POST form carrying the CSRF token.
func postForm(action, token string, children ...*markup.Node) *markup.Node {
	f := markup.El("form", csrfField(token)).Attr("method", "post").Attr("action", action)
	return f.Append(children...)
}

func button(label string) *markup.Node {
	return markup.El("button", markup.Text(label)).Attr("type", "submit")
}

func labeled(label string, input *markup.Node) *markup.Node {
	return markup.El("label", markup.Text(label), input)
}

func textInput(name, value string) *markup.Node {
	return markup.El("input").Attr("type", "text").Attr("name", name).Attr("value", value)
}

func selectInput(name, selected string, opts []Option) *markup.Node {
	sel := markup.El("select").Attr("name", name)
	for _, o := range opts {
		opt := markup.El("option", markup.Text(o.Label)).Attr("value", o.Value)
		if o.Value == selected {
			opt.Attr("selected", "")
		}
		sel.Append(opt)
	}
	return sel
}

// NotFound is the 404 page.
func NotFound(site Site) templ.Component {
	return layout(site, page{Title: "Not found"}, markup.Component(
		markup.El("h1", markup.Text("Not found")),
		markup.El("p", markup.Text("The page you are looking for does not exist.")),
	))
}

// ServerError is the 500 page.
func ServerError(site Site) templ.Component {
	return layout(site, page{Title: "Error"}, markup.Component(
		markup.El("h1", markup.Text("Something went wrong")),
		markup.El("p", markup.Text("Please try again later.")),
	))
}
