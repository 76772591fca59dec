package storycarousel

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/storycarousel/carousel"
	"github.com/eringen/storycarousel/markdown"
	"github.com/eringen/storycarousel/views"
)

func (a *App) site() views.Site {
	return views.Site{Name: a.Config.Name, URL: a.Config.URL}
}

// blockView runs the pipeline for b and prepares the publish view.
func (a *App) blockView(ctx context.Context, b Block) carousel.View {
	cfg := b.Config()
	items := a.Pipeline.FetchAndEnrich(ctx, cfg)
	return carousel.NewView(cfg, items, a.Presets, a.fallbackImageURL())
}

// RenderBlock returns the publish markup of the stored block id.
func (a *App) RenderBlock(ctx context.Context, id string) (string, error) {
	b, err := a.Store.GetBlock(id)
	if err != nil {
		return "", err
	}
	return carousel.StaticHTML(a.blockView(ctx, b)), nil
}

func (a *App) publicBlock(c echo.Context) (Block, error) {
	b, err := a.Store.GetBlock(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return Block{}, echo.ErrNotFound
	}
	return b, err
}

func (a *App) handleHome(c echo.Context) error {
	blocks, err := a.Store.ListBlocks()
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
	}
	return c.Redirect(http.StatusFound, "/blocks/"+blocks[0].ID+"/")
}

func (a *App) handleBlock(c echo.Context) error {
	b, err := a.publicBlock(c)
	if err != nil {
		return err
	}
	v := a.blockView(c.Request().Context(), b)
	return Render(c, a.Views.BlockPage(a.site(), b.Name, carousel.Static(v)))
}

// handleBlockFragment serves the bare carousel markup for embedding.
func (a *App) handleBlockFragment(c echo.Context) error {
	b, err := a.publicBlock(c)
	if err != nil {
		return err
	}
	return Render(c, carousel.Static(a.blockView(c.Request().Context(), b)))
}

func (a *App) handleBlockFeed(c echo.Context) error {
	b, err := a.publicBlock(c)
	if err != nil {
		return err
	}
	cfg := b.Config()
	items := a.Pipeline.FetchAndEnrich(c.Request().Context(), cfg)
	return a.renderRSS(c, b, cfg, items)
}

func (a *App) handlePost(c echo.Context) error {
	p, err := a.Store.GetPublishedPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
		}
		return err
	}
	post := views.Post{
		Title: p.Title,
		Date:  p.Date,
		Body:  markdown.Component(p.Body),
	}
	if p.AuthorID != 0 {
		if au, err := a.Store.GetAuthor(p.AuthorID); err == nil {
			post.Author = au.Name
		}
	}
	if p.FeaturedMedia != 0 {
		if img, err := a.Store.GetImage(p.FeaturedMedia); err == nil {
			post.ImageURL = UploadURL(a.Config.URL, img.Filename)
		}
	}
	return Render(c, a.Views.PostPage(a.site(), post))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\nDisallow: /api/\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && !wantsJSON(c) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if !wantsJSON(c) {
			_ = RenderStatus(c, code, a.Views.ServerError(a.site()))
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
