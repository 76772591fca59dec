package carousel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu       sync.Mutex
	items    []ContentItem
	listErr  error
	media    map[int64]Media
	authors  map[int64]Author
	queries  []Query
	mediaErr map[int64]bool
}

func (f *fakeSource) List(ctx context.Context, q Query) ([]ContentItem, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeSource) Media(ctx context.Context, id int64) (Media, error) {
	if f.mediaErr[id] {
		return Media{}, errors.New("media: 500")
	}
	m, ok := f.media[id]
	if !ok {
		return Media{}, fmt.Errorf("media %d: not found", id)
	}
	return m, nil
}

func (f *fakeSource) Author(ctx context.Context, id int64) (Author, error) {
	a, ok := f.authors[id]
	if !ok {
		return Author{}, fmt.Errorf("author %d: not found", id)
	}
	return a, nil
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func TestNewQueryCategory(t *testing.T) {
	c := Defaults()
	q := NewQuery(c)
	if q.Category != "" || q.Status != StatusPublish || q.PerPage != 7 || q.ContentType != "post" {
		t.Errorf("unfiltered query = %+v", q)
	}
	c.CategoryFilter = "5"
	if q := NewQuery(c); q.Category != "5" {
		t.Errorf("filtered query = %+v", q)
	}
}

func TestFetchAndEnrich(t *testing.T) {
	src := &fakeSource{
		items: []ContentItem{
			{ID: 1, Title: "First &amp; best", Body: "<p>The quick brown fox jumps</p>", FeaturedMediaID: 10, AuthorID: 100},
			{ID: 2, Title: "<em>No image</em>", Body: "", Excerpt: "<p>excerpt only</p>", AuthorID: 999},
			{ID: 3, Title: "Broken media", Body: "body", FeaturedMediaID: 11, AuthorID: 100},
		},
		media:    map[int64]Media{10: {ID: 10, SourceURL: "https://cdn.test/10.jpg"}, 11: {ID: 11}},
		mediaErr: map[int64]bool{11: true},
		authors:  map[int64]Author{100: {ID: 100, Name: "Ada", AvatarURLs: map[int]string{24: "https://cdn.test/ada24.png"}}},
	}
	log := &recordingLogger{}
	p := &Pipeline{Source: src, Logger: log}
	got := p.FetchAndEnrich(context.Background(), Defaults())

	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	for i, want := range []int64{1, 2, 3} {
		if got[i].ID != want {
			t.Errorf("item %d id = %d, want %d", i, got[i].ID, want)
		}
	}
	if got[0].Media == nil || got[0].Media.SourceURL != "https://cdn.test/10.jpg" {
		t.Errorf("item 1 media = %+v", got[0].Media)
	}
	if got[0].Author == nil || got[0].Author.Name != "Ada" {
		t.Errorf("item 1 author = %+v", got[0].Author)
	}
	if got[0].PlainTitle != "First & best" {
		t.Errorf("item 1 title = %q", got[0].PlainTitle)
	}
	if got[0].Description(10) != "The quick ..." {
		t.Errorf("item 1 description = %q", got[0].Description(10))
	}
	if got[1].Media != nil || got[1].Author != nil {
		t.Errorf("item 2 should have no media and no author: %+v %+v", got[1].Media, got[1].Author)
	}
	if got[1].PlainText != "excerpt only" {
		t.Errorf("item 2 text = %q", got[1].PlainText)
	}
	if got[2].Media != nil {
		t.Errorf("item 3 media should be nil after failed lookup")
	}
	if got[2].Author == nil {
		t.Errorf("item 3 author should survive the failed media lookup")
	}
	if len(log.lines) != 2 {
		t.Errorf("logged %d failures, want 2: %v", len(log.lines), log.lines)
	}
}

func TestFetchAndEnrichListFailure(t *testing.T) {
	log := &recordingLogger{}
	p := &Pipeline{Source: &fakeSource{listErr: errors.New("status 503")}, Logger: log}
	got := p.FetchAndEnrich(context.Background(), Defaults())
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
	if len(log.lines) != 1 || !strings.Contains(log.lines[0], "status 503") {
		t.Errorf("log = %v", log.lines)
	}
}

func TestFetchAndEnrichCapsToPostCount(t *testing.T) {
	src := &fakeSource{}
	for i := 1; i <= 5; i++ {
		src.items = append(src.items, ContentItem{ID: int64(i)})
	}
	c := Defaults()
	c.PostCount = 2
	got := (&Pipeline{Source: src}).FetchAndEnrich(context.Background(), c)
	if len(got) != 2 {
		t.Errorf("got %d items, want 2", len(got))
	}
	if src.queries[0].PerPage != 2 {
		t.Errorf("PerPage = %d, want 2", src.queries[0].PerPage)
	}
}

type slowLister struct{ fakeSource }

func (s *slowLister) List(ctx context.Context, q Query) ([]ContentItem, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFetchAndEnrichTimeout(t *testing.T) {
	log := &recordingLogger{}
	p := &Pipeline{Source: &slowLister{}, Logger: log, Timeout: 20 * time.Millisecond}
	got := p.FetchAndEnrich(context.Background(), Defaults())
	if len(got) != 0 {
		t.Errorf("got %d items after timeout", len(got))
	}
	if len(log.lines) != 1 {
		t.Errorf("log = %v", log.lines)
	}
}

func TestFetchAndEnrichCancelledRunIsQuiet(t *testing.T) {
	log := &recordingLogger{}
	p := &Pipeline{Source: &slowLister{}, Logger: log, Timeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []EnrichedItem, 1)
	go func() { done <- p.FetchAndEnrich(ctx, Defaults()) }()
	cancel()
	got := <-done
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
	if len(log.lines) != 0 {
		t.Errorf("cancelled run logged %v", log.lines)
	}
}
