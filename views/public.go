package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/markup"
)

// BlockPage is the public page of one carousel block.
func BlockPage(site Site, title string, body templ.Component) templ.Component {
	p := page{
		Title:   title,
		Styles:  []string{"/public/carousel.css"},
		Scripts: []string{"/public/carousel.js"},
	}
	return layout(site, p, join(
		markup.Component(markup.El("h1", markup.Text(title)).Class("block-title")),
		body,
	))
}

// PostPage shows one local post.
func PostPage(site Site, post Post) templ.Component {
	meta := markup.El("p", markup.Text(post.Date)).Class("post-meta")
	if post.Author != "" {
		meta.Append(markup.Text(" · " + post.Author))
	}
	head := []*markup.Node{markup.El("h1", markup.Text(post.Title)), meta}
	if post.ImageURL != "" {
		head = append(head, markup.El("img").
			Attr("src", markup.SafeURL(post.ImageURL)).
			Attr("alt", post.Title).
			Class("post-image"))
	}
	return layout(site, page{Title: post.Title}, join(
		markup.Component(markup.El("header").Class("post-header").Append(head...)),
		post.Body,
	))
}
