package storycarousel

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/storycarousel/carousel"
	"github.com/eringen/storycarousel/views"
)

// previewWait bounds how long an attribute save waits for its fetch before
// answering with the loading state. The editor polls after that.
const previewWait = 750 * time.Millisecond

// previewSessions holds one Loader per block being edited.
type previewSessions struct {
	fetch carousel.FetchFunc

	mu      sync.Mutex
	loaders map[string]*carousel.Loader
}

func newPreviewSessions(fetch carousel.FetchFunc) *previewSessions {
	return &previewSessions{fetch: fetch, loaders: make(map[string]*carousel.Loader)}
}

func (p *previewSessions) get(id string) *carousel.Loader {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.loaders[id]
	if !ok {
		l = carousel.NewLoader(p.fetch)
		p.loaders[id] = l
	}
	return l
}

func (p *previewSessions) drop(id string) {
	p.mu.Lock()
	l, ok := p.loaders[id]
	delete(p.loaders, id)
	p.mu.Unlock()
	if ok {
		l.Close()
	}
}

func (p *previewSessions) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, l := range p.loaders {
		l.Close()
		delete(p.loaders, id)
	}
}

func wait(done <-chan struct{}, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
	}
}

func (a *App) loadBlock(c echo.Context) (Block, error) {
	b, err := a.Store.GetBlock(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return Block{}, echo.NewHTTPError(http.StatusNotFound, "block not found")
	}
	return b, err
}

func (a *App) handleEditor(c echo.Context) error {
	b, err := a.loadBlock(c)
	if err != nil {
		return err
	}
	cfg := b.Config()
	loader := a.previews.get(b.ID)
	wait(loader.Update(cfg), previewWait)
	preview := carousel.Interactive(loader.Snapshot(), a.Presets, a.fallbackImageURL())
	return Render(c, a.Views.Editor(a.site(), views.Editor{
		BlockID: b.ID,
		Name:    b.Name,
		Config:  cfg,
		Types:   a.ContentTypes(c.Request().Context()),
		Preview: preview,
	}, CsrfToken(c)))
}

// handleAttributes merges the posted attributes into the block, persists the
// resolved set, and answers with the new preview.
func (a *App) handleAttributes(c echo.Context) error {
	b, err := a.loadBlock(c)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attributes")
	}
	cfg := carousel.Resolve(carousel.Merge(b.Attributes, raw))
	if err := a.Store.SaveBlockAttributes(b.ID, cfg.Attributes()); err != nil {
		return err
	}
	loader := a.previews.get(b.ID)
	wait(loader.Update(cfg), previewWait)
	return c.JSON(http.StatusOK, carousel.Interactive(loader.Snapshot(), a.Presets, a.fallbackImageURL()))
}

func (a *App) handlePreview(c echo.Context) error {
	b, err := a.loadBlock(c)
	if err != nil {
		return err
	}
	loader := a.previews.get(b.ID)
	snap := loader.Snapshot()
	if snap.Generation == 0 {
		loader.Update(b.Config())
		snap = loader.Snapshot()
	}
	return c.JSON(http.StatusOK, carousel.Interactive(snap, a.Presets, a.fallbackImageURL()))
}

func (a *App) handlePreviewRefresh(c echo.Context) error {
	b, err := a.loadBlock(c)
	if err != nil {
		return err
	}
	loader := a.previews.get(b.ID)
	wait(loader.Refresh(b.Config()), previewWait)
	return c.JSON(http.StatusOK, carousel.Interactive(loader.Snapshot(), a.Presets, a.fallbackImageURL()))
}

func (a *App) handleContentTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, a.ContentTypes(c.Request().Context()))
}
