package storycarousel

import "github.com/eringen/storycarousel/carousel"

// Block is one stored carousel instance. Attributes round-trip verbatim;
// Config resolves them on every read.
type Block struct {
	ID         string
	Name       string
	Attributes map[string]interface{}
	CreatedAt  string
	UpdatedAt  string
}

// Config returns the resolved attributes.
func (b Block) Config() carousel.Config {
	return carousel.Resolve(b.Attributes)
}

// Post is a locally stored content item.
type Post struct {
	ID            int64
	Type          string
	Slug          string
	Title         string
	Body          string
	Excerpt       string
	Date          string
	CategoryID    int64
	AuthorID      int64
	FeaturedMedia int64
	Published     bool
}

// Category is a local taxonomy term.
type Category struct {
	ID   int64
	Slug string
	Name string
}

// AuthorRecord is a locally stored author.
type AuthorRecord struct {
	ID        int64
	Name      string
	AvatarURL string
}

// Image is an uploaded image and its size renditions.
type Image struct {
	ID           int64
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
	Renditions   map[string]string // preset name -> filename
}

// ImageSize is a registered image size preset.
type ImageSize struct {
	Name   string
	Width  int
	Height int
}
