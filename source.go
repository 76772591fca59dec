package storycarousel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eringen/storycarousel/carousel"
	"github.com/eringen/storycarousel/markdown"
)

// LocalSource serves carousel content from the SQLite store.
type LocalSource struct {
	store   *Store
	siteURL string
}

// NewLocalSource returns a source whose links and media URLs are rooted at
// siteURL.
func NewLocalSource(s *Store, siteURL string) *LocalSource {
	return &LocalSource{store: s, siteURL: siteURL}
}

var _ carousel.Source = (*LocalSource)(nil)
var _ carousel.TypeLister = (*LocalSource)(nil)

// List implements carousel.Lister. Only published posts are listable, so
// q.Status is always satisfied. Bodies are Markdown and leave as HTML.
func (l *LocalSource) List(ctx context.Context, q carousel.Query) ([]carousel.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts, err := l.store.ListPublished(q.ContentType, q.Category, q.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", q.ContentType, err)
	}
	items := make([]carousel.ContentItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, carousel.ContentItem{
			ID:              p.ID,
			Type:            p.Type,
			Title:           p.Title,
			Link:            BuildURL(l.siteURL, "posts", p.Slug),
			Body:            markdown.HTML(p.Body),
			Excerpt:         p.Excerpt,
			Date:            p.Date,
			FeaturedMediaID: p.FeaturedMedia,
			AuthorID:        p.AuthorID,
		})
	}
	return items, nil
}

// Media implements carousel.MediaLookup.
func (l *LocalSource) Media(ctx context.Context, id int64) (carousel.Media, error) {
	if err := ctx.Err(); err != nil {
		return carousel.Media{}, err
	}
	img, err := l.store.GetImage(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return carousel.Media{}, fmt.Errorf("media %d: %w", id, ErrNotFound)
		}
		return carousel.Media{}, err
	}
	m := carousel.Media{
		ID:        img.ID,
		SourceURL: UploadURL(l.siteURL, img.Filename),
		Width:     img.Width,
		Height:    img.Height,
		Sizes:     make(map[string]string, len(img.Renditions)),
	}
	for preset, file := range img.Renditions {
		m.Sizes[preset] = UploadURL(l.siteURL, file)
	}
	return m, nil
}

// Author implements carousel.AuthorLookup. The single stored avatar serves
// every requested size.
func (l *LocalSource) Author(ctx context.Context, id int64) (carousel.Author, error) {
	if err := ctx.Err(); err != nil {
		return carousel.Author{}, err
	}
	a, err := l.store.GetAuthor(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return carousel.Author{}, fmt.Errorf("author %d: %w", id, ErrNotFound)
		}
		return carousel.Author{}, err
	}
	out := carousel.Author{ID: a.ID, Name: a.Name, AvatarURLs: map[int]string{}}
	if a.AvatarURL != "" {
		for _, size := range []int{24, 48, 96} {
			out.AvatarURLs[size] = a.AvatarURL
		}
	}
	return out, nil
}

// ContentTypes implements carousel.TypeLister.
func (l *LocalSource) ContentTypes(ctx context.Context) ([]carousel.ContentType, error) {
	types, err := l.store.ListContentTypes()
	if err != nil {
		return nil, err
	}
	out := types[:0]
	for _, t := range types {
		if t.Name == "page" || t.Name == "attachment" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
