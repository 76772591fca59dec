package storycarousel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eringen/storycarousel/carousel"
)

func TestLocalSourceListMapsPosts(t *testing.T) {
	s := setupTestStore(t)
	author, _ := s.SaveAuthor(AuthorRecord{Name: "Ada", AvatarURL: "https://example.com/ada.png"})
	s.SavePost(Post{Slug: "hello", Title: "Hello", Body: "**Hi** there", Date: "2024-01-02", AuthorID: author, Published: true})

	src := NewLocalSource(s, "https://site.test")
	items, err := src.List(context.Background(), carousel.Query{ContentType: "post", PerPage: 5, Status: carousel.StatusPublish})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	it := items[0]
	if it.Link != "https://site.test/posts/hello/" {
		t.Errorf("Link = %q", it.Link)
	}
	if !strings.Contains(it.Body, "<strong>Hi</strong>") {
		t.Errorf("Body should be rendered Markdown, got %q", it.Body)
	}
	if it.AuthorID != author {
		t.Errorf("AuthorID = %d", it.AuthorID)
	}
}

func TestLocalSourceMediaAndAuthor(t *testing.T) {
	s := setupTestStore(t)
	id, _ := s.SaveImage(Image{
		Filename: "cat.jpg", OriginalName: "cat.jpg", Width: 800, Height: 600,
		UploadedAt: "2024-01-01T00:00:00Z", Renditions: map[string]string{"medium": "cat-medium.jpg"},
	})
	aid, _ := s.SaveAuthor(AuthorRecord{Name: "Ada", AvatarURL: "https://example.com/ada.png"})
	src := NewLocalSource(s, "https://site.test")
	ctx := context.Background()

	m, err := src.Media(ctx, id)
	if err != nil {
		t.Fatalf("Media failed: %v", err)
	}
	if m.SourceURL != "https://site.test/public/uploads/cat.jpg" {
		t.Errorf("SourceURL = %q", m.SourceURL)
	}
	if diff := cmp.Diff(map[string]string{"medium": "https://site.test/public/uploads/cat-medium.jpg"}, m.Sizes); diff != "" {
		t.Errorf("Sizes (-want +got):\n%s", diff)
	}

	a, err := src.Author(ctx, aid)
	if err != nil {
		t.Fatalf("Author failed: %v", err)
	}
	if a.Avatar(carousel.AvatarSize) != "https://example.com/ada.png" {
		t.Errorf("avatar = %q", a.Avatar(carousel.AvatarSize))
	}

	if _, err := src.Media(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing media error = %v", err)
	}
	if _, err := src.Author(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing author error = %v", err)
	}
}

func TestLocalSourceContentTypesSkipsPages(t *testing.T) {
	s := setupTestStore(t)
	s.SavePost(Post{Slug: "about", Title: "About", Type: "page", Date: "2024-01-01", Published: true})
	s.SavePost(Post{Slug: "s1", Title: "S1", Type: "story", Date: "2024-01-01", Published: true})

	types, err := NewLocalSource(s, "https://site.test").ContentTypes(context.Background())
	if err != nil {
		t.Fatalf("ContentTypes failed: %v", err)
	}
	want := []carousel.ContentType{{Name: "post", Label: "Posts"}, {Name: "story", Label: "story"}}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
}

func TestPipelineOverLocalSourceDegradesMissingMedia(t *testing.T) {
	s := setupTestStore(t)
	s.SavePost(Post{Slug: "a", Title: "A &amp; B", Body: "text", Date: "2024-01-01", FeaturedMedia: 77, AuthorID: 88, Published: true})

	p := &carousel.Pipeline{Source: NewLocalSource(s, "https://site.test")}
	items := p.FetchAndEnrich(context.Background(), carousel.Defaults())
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Media != nil || items[0].Author != nil {
		t.Errorf("missing media and author should stay nil: %+v", items[0])
	}
	if items[0].PlainTitle != "A & B" {
		t.Errorf("PlainTitle = %q", items[0].PlainTitle)
	}
}
