package carousel

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

// StatusPublish restricts listings to published items.
const StatusPublish = "publish"

// Query is a listing request.
type Query struct {
	ContentType string
	PerPage     int
	Category    string // empty means unfiltered
	Status      string
}

// NewQuery builds the listing request for c.
func NewQuery(c Config) Query {
	return Query{
		ContentType: c.ContentType,
		PerPage:     c.PostCount,
		Category:    c.CategoryFilter,
		Status:      StatusPublish,
	}
}

// Lister returns an ordered page of content items.
type Lister interface {
	List(ctx context.Context, q Query) ([]ContentItem, error)
}

// MediaLookup resolves a featured image id.
type MediaLookup interface {
	Media(ctx context.Context, id int64) (Media, error)
}

// AuthorLookup resolves an author id.
type AuthorLookup interface {
	Author(ctx context.Context, id int64) (Author, error)
}

// ContentType is a listable content type.
type ContentType struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// TypeLister lists the content types a block can query.
type TypeLister interface {
	ContentTypes(ctx context.Context) ([]ContentType, error)
}

// Source is everything the pipeline needs from a content backend.
type Source interface {
	Lister
	MediaLookup
	AuthorLookup
}

// Logger receives transport failures. echo.Logger satisfies it.
type Logger interface {
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{}) {}

// DefaultLookupConcurrency bounds the media and author lookups in flight for
// one run.
const DefaultLookupConcurrency = 8

// Pipeline fetches a page of items and enriches each with its image and
// author.
type Pipeline struct {
	Source      Source
	Logger      Logger
	Timeout     time.Duration // zero means no limit beyond ctx
	Concurrency int
}

// FetchAndEnrich runs one fetch for c. Failures never escape: a failed
// listing yields an empty result, and a failed media or author lookup leaves
// that part of the item nil. Output order is the listing order.
func (p *Pipeline) FetchAndEnrich(ctx context.Context, c Config) []EnrichedItem {
	log := p.Logger
	if log == nil {
		log = nopLogger{}
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	q := NewQuery(c)
	items, err := p.Source.List(ctx, q)
	if err != nil {
		if superseded(err) {
			return []EnrichedItem{}
		}
		log.Errorf("carousel: list %s (per_page=%d category=%q): %v", q.ContentType, q.PerPage, q.Category, err)
		return []EnrichedItem{}
	}
	if len(items) > q.PerPage {
		items = items[:q.PerPage]
	}

	out := make([]EnrichedItem, len(items))
	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultLookupConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		out[i] = EnrichedItem{
			ContentItem: item,
			PlainTitle:  StripTags(item.Title),
			PlainText:   StripTags(bodyText(item)),
		}
		if item.FeaturedMediaID != 0 {
			g.Go(func() error {
				m, err := p.Source.Media(ctx, item.FeaturedMediaID)
				if err != nil {
					if !superseded(err) {
						log.Errorf("carousel: media %d for item %d: %v", item.FeaturedMediaID, item.ID, err)
					}
					return nil
				}
				out[i].Media = &m
				return nil
			})
		}
		if item.AuthorID != 0 {
			g.Go(func() error {
				a, err := p.Source.Author(ctx, item.AuthorID)
				if err != nil {
					if !superseded(err) {
						log.Errorf("carousel: author %d for item %d: %v", item.AuthorID, item.ID, err)
					}
					return nil
				}
				out[i].Author = &a
				return nil
			})
		}
	}
	_ = g.Wait()
	return out
}

// superseded reports whether the caller cancelled the run, as the preview
// loader does when a newer fetch starts. Deadline errors still count as
// transport failures.
func superseded(err error) bool {
	return errors.Is(err, context.Canceled)
}

func bodyText(item ContentItem) string {
	if item.Body != "" {
		return item.Body
	}
	return item.Excerpt
}
