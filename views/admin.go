package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/markup"
)

// Login is the admin login form.
func Login(site Site, showError bool, csrfToken string) templ.Component {
	form := postForm("/admin/login/", csrfToken,
		labeled("Password", markup.El("input").Attr("type", "password").Attr("name", "password").Attr("autofocus", "")),
		button("Log in"),
	).Class("stack")
	body := []*markup.Node{markup.El("h1", markup.Text("Log in"))}
	if showError {
		body = append(body, markup.El("p", markup.Text("Wrong password.")).Class("notice", "notice-error"))
	}
	body = append(body, form)
	return layout(site, page{Title: "Log in"}, markup.Component(body...))
}

// DashboardPage lists blocks and, for local content, posts, taxonomy, and
// media.
func DashboardPage(site Site, d Dashboard, csrfToken string) templ.Component {
	var body []*markup.Node
	body = append(body, markup.El("h1", markup.Text("Dashboard")))
	if d.Message != "" {
		body = append(body, markup.El("p", markup.Text(d.Message)).Class("notice"))
	}
	body = append(body, blocksSection(d, csrfToken))
	if d.LocalContent {
		body = append(body,
			postsSection(d, csrfToken),
			taxonomySection(d, csrfToken),
			imagesSection(d, csrfToken),
		)
	}
	body = append(body,
		sizesSection(d, csrfToken),
		postForm("/admin/logout/", csrfToken, button("Log out")),
	)
	return layout(site, page{Title: "Dashboard", Admin: true}, markup.Component(body...))
}

func section(title string, children ...*markup.Node) *markup.Node {
	return markup.El("section", markup.El("h2", markup.Text(title))).Class("panel").Append(children...)
}

func table(head []string, rows ...*markup.Node) *markup.Node {
	tr := markup.El("tr")
	for _, h := range head {
		tr.Append(markup.El("th", markup.Text(h)))
	}
	return markup.El("table",
		markup.El("thead", tr),
		markup.El("tbody", rows...),
	)
}

func cell(children ...*markup.Node) *markup.Node {
	return markup.El("td", children...)
}

func link(label, href string) *markup.Node {
	return markup.El("a", markup.Text(label)).Attr("href", href)
}

func blocksSection(d Dashboard, token string) *markup.Node {
	var rows []*markup.Node
	for _, b := range d.Blocks {
		rows = append(rows, markup.El("tr",
			cell(link(b.Name, "/admin/blocks/"+b.ID+"/")),
			cell(markup.Text(b.UpdatedAt)),
			cell(
				link("View", "/blocks/"+b.ID+"/"),
				markup.Text(" "),
				link("Feed", "/blocks/"+b.ID+"/feed.xml"),
				postForm("/admin/blocks/"+b.ID+"/delete/", token, button("Delete")).Class("inline"),
			),
		))
	}
	return section("Blocks",
		table([]string{"Name", "Updated", ""}, rows...),
		postForm("/admin/blocks/", token,
			labeled("Name", textInput("name", "")),
			button("New block"),
		).Class("inline"),
	)
}

func postsSection(d Dashboard, token string) *markup.Node {
	var rows []*markup.Node
	for _, p := range d.Posts {
		status := "draft"
		if p.Published {
			status = "published"
		}
		rows = append(rows, markup.El("tr",
			cell(link(p.Title, "/posts/"+p.Slug+"/")),
			cell(markup.Text(p.Type)),
			cell(markup.Text(p.Date)),
			cell(markup.Text(status)),
			cell(postForm("/admin/posts/"+strconv.FormatInt(p.ID, 10)+"/delete/", token, button("Delete")).Class("inline")),
		))
	}

	none := []Option{{Value: "", Label: "None"}}
	var media []Option
	for _, img := range d.Images {
		media = append(media, Option{Value: strconv.FormatInt(img.ID, 10), Label: img.Filename})
	}

	form := postForm("/admin/posts/", token,
		labeled("Title", textInput("title", "")),
		labeled("Slug", textInput("slug", "")),
		labeled("Type", textInput("type", "post")),
		labeled("Date", markup.El("input").Attr("type", "date").Attr("name", "date")),
		labeled("Category", selectInput("category_id", "", append(none, d.Categories...))),
		labeled("Author", selectInput("author_id", "", append(none, d.Authors...))),
		labeled("Featured image", selectInput("featured_media", "", append(none, media...))),
		labeled("Excerpt", markup.El("textarea").Attr("name", "excerpt").Attr("rows", "2")),
		labeled("Body (Markdown)", markup.El("textarea").Attr("name", "body").Attr("rows", "8")),
		labeled("Published", markup.El("input").Attr("type", "checkbox").Attr("name", "published").Attr("checked", "")),
		button("Save post"),
	).Class("stack")

	return section("Posts", table([]string{"Title", "Type", "Date", "Status", ""}, rows...), form)
}

func taxonomySection(d Dashboard, token string) *markup.Node {
	cats := markup.El("ul")
	for _, c := range d.Categories {
		cats.Append(markup.El("li", markup.Textf("%s (id %s)", c.Label, c.Value)))
	}
	authors := markup.El("ul")
	for _, a := range d.Authors {
		authors.Append(markup.El("li", markup.Text(a.Label)))
	}
	return section("Categories and authors",
		cats,
		postForm("/admin/categories/", token,
			labeled("Category", textInput("name", "")),
			labeled("Slug", textInput("slug", "")),
			button("Add category"),
		).Class("inline"),
		authors,
		postForm("/admin/authors/", token,
			labeled("Author", textInput("name", "")),
			labeled("Avatar URL", textInput("avatar_url", "")),
			button("Add author"),
		).Class("inline"),
	)
}

func imagesSection(d Dashboard, token string) *markup.Node {
	grid := markup.El("div").Class("image-grid")
	for _, img := range d.Images {
		grid.Append(markup.El("figure",
			markup.El("img").Attr("src", markup.SafeURL(img.URL)).Attr("alt", img.Filename).Attr("loading", "lazy"),
			markup.El("figcaption", markup.Textf("#%d %s (%dx%d)", img.ID, img.Filename, img.Width, img.Height)),
			postForm("/admin/images/"+strconv.FormatInt(img.ID, 10)+"/delete/", token, button("Delete")),
		))
	}
	upload := postForm("/admin/images/upload/", token,
		markup.El("input").Attr("type", "file").Attr("name", "image").Attr("accept", "image/*"),
		button("Upload"),
	).Attr("enctype", "multipart/form-data").Class("inline")
	return section("Images", grid, upload)
}

func sizesSection(d Dashboard, token string) *markup.Node {
	var rows []*markup.Node
	for _, s := range d.Sizes {
		rows = append(rows, markup.El("tr",
			cell(markup.Text(s.Name)),
			cell(markup.Textf("%d", s.Width)),
			cell(markup.Textf("%d", s.Height)),
		))
	}
	num := func(name string) *markup.Node {
		return markup.El("input").Attr("type", "number").Attr("name", name).Attr("min", "0")
	}
	return section("Image sizes",
		table([]string{"Name", "Width", "Height"}, rows...),
		postForm("/admin/sizes/", token,
			labeled("Name", textInput("name", "")),
			labeled("Width", num("width")),
			labeled("Height", num("height")),
			button("Save size"),
		).Class("inline"),
	)
}
