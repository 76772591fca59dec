package storycarousel

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/storycarousel/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.Login(a.site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		a.loginLimiter.Reset(ip)
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.Login(a.site(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func redirectMsg(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) handleBlockCreate(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = "Story Carousel"
	}
	b, err := a.Store.CreateBlock(name)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/blocks/"+b.ID+"/")
}

func (a *App) handleBlockRename(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return redirectMsg(c, "Name is required.")
	}
	err := a.Store.RenameBlock(c.Param("id"), name)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/blocks/"+c.Param("id")+"/")
}

func (a *App) handleBlockDelete(c echo.Context) error {
	id := c.Param("id")
	if err := a.Store.DeleteBlock(id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	a.previews.drop(id)
	return redirectMsg(c, "Block deleted.")
}

func (a *App) handlePostSave(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return redirectMsg(c, "Slug is required. Add a title or slug.")
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return redirectMsg(c, "Invalid date format. Use YYYY-MM-DD.")
	}
	typ := strings.ToLower(strings.TrimSpace(c.FormValue("type")))
	if typ == "" {
		typ = "post"
	}
	if _, err := a.Store.SavePost(Post{
		ID:            ParseID(c.FormValue("id")),
		Type:          typ,
		Slug:          slug,
		Title:         title,
		Body:          c.FormValue("body"),
		Excerpt:       c.FormValue("excerpt"),
		Date:          date,
		CategoryID:    ParseID(c.FormValue("category_id")),
		AuthorID:      ParseID(c.FormValue("author_id")),
		FeaturedMedia: ParseID(c.FormValue("featured_media")),
		Published:     c.FormValue("published") != "",
	}); err != nil {
		return err
	}
	return redirectMsg(c, "Post saved.")
}

func (a *App) handlePostDelete(c echo.Context) error {
	id := ParseID(c.Param("id"))
	if err := a.Store.DeletePost(id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return redirectMsg(c, "Post deleted.")
}

func (a *App) handleCategorySave(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return redirectMsg(c, "Category name is required.")
	}
	if _, err := a.Store.SaveCategory(Category{Slug: slug, Name: name}); err != nil {
		return err
	}
	return redirectMsg(c, "Category saved.")
}

func (a *App) handleAuthorSave(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return redirectMsg(c, "Author name is required.")
	}
	if _, err := a.Store.SaveAuthor(AuthorRecord{
		Name:      name,
		AvatarURL: strings.TrimSpace(c.FormValue("avatar_url")),
	}); err != nil {
		return err
	}
	return redirectMsg(c, "Author saved.")
}

func (a *App) handleSizeSave(c echo.Context) error {
	name := strings.ToLower(strings.TrimSpace(c.FormValue("name")))
	w, errW := strconv.Atoi(c.FormValue("width"))
	h, errH := strconv.Atoi(c.FormValue("height"))
	if name == "" || errW != nil || errH != nil || w < 0 || h < 0 {
		return redirectMsg(c, "Image size needs a name, width, and height.")
	}
	if err := a.Presets.Save(ImageSize{Name: name, Width: w, Height: h}); err != nil {
		return err
	}
	return redirectMsg(c, "Image size saved.")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	d, err := a.dashboard(msg)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Dashboard(a.site(), d, CsrfToken(c)))
}

func (a *App) dashboard(msg string) (views.Dashboard, error) {
	d := views.Dashboard{Message: msg, LocalContent: a.Config.ContentSource == SourceLocal}

	blocks, err := a.Store.ListBlocks()
	if err != nil {
		return d, err
	}
	for _, b := range blocks {
		d.Blocks = append(d.Blocks, views.BlockRow{ID: b.ID, Name: b.Name, UpdatedAt: b.UpdatedAt})
	}

	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return d, err
	}
	for _, p := range posts {
		d.Posts = append(d.Posts, views.PostRow{
			ID: p.ID, Type: p.Type, Slug: p.Slug, Title: p.Title, Date: p.Date, Published: p.Published,
		})
	}

	cats, err := a.Store.ListCategories()
	if err != nil {
		return d, err
	}
	for _, cat := range cats {
		d.Categories = append(d.Categories, views.Option{Value: strconv.FormatInt(cat.ID, 10), Label: cat.Name})
	}

	authors, err := a.Store.ListAuthors()
	if err != nil {
		return d, err
	}
	for _, au := range authors {
		d.Authors = append(d.Authors, views.Option{Value: strconv.FormatInt(au.ID, 10), Label: au.Name})
	}

	images, err := a.Store.ListImages()
	if err != nil {
		return d, err
	}
	for _, img := range images {
		d.Images = append(d.Images, views.ImageRow{
			ID: img.ID, Filename: img.Filename, URL: UploadURL("/", img.Filename), Width: img.Width, Height: img.Height,
		})
	}

	sizes, err := a.Store.ListImageSizes()
	if err != nil {
		return d, err
	}
	for _, sz := range sizes {
		d.Sizes = append(d.Sizes, views.SizeRow{Name: sz.Name, Width: sz.Width, Height: sz.Height})
	}
	return d, nil
}
