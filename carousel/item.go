package carousel

import "sort"

// ContentItem is one entry returned by a listing. Title and Body are rich
// text and may contain markup.
type ContentItem struct {
	ID              int64
	Type            string
	Title           string
	Link            string
	Body            string
	Excerpt         string
	Date            string
	FeaturedMediaID int64 // 0 when the item has no featured image
	AuthorID        int64 // 0 when the item has no author
}

// Media is the result of a media lookup.
type Media struct {
	ID        int64
	SourceURL string
	Width     int
	Height    int
	Sizes     map[string]string // preset name -> URL
}

// URL returns the URL for preset, or the source URL when the preset has no
// rendition of its own.
func (m Media) URL(preset string) string {
	if u := m.Sizes[preset]; u != "" {
		return u
	}
	return m.SourceURL
}

// Author is the result of an author lookup.
type Author struct {
	ID         int64
	Name       string
	AvatarURLs map[int]string // pixel size -> URL
}

// AvatarSize is the avatar rendition shown on cards.
const AvatarSize = 24

// Avatar returns the avatar URL closest to size, preferring larger ones.
func (a Author) Avatar(size int) string {
	if u := a.AvatarURLs[size]; u != "" {
		return u
	}
	sizes := make([]int, 0, len(a.AvatarURLs))
	for s := range a.AvatarURLs {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	for _, s := range sizes {
		if s >= size && a.AvatarURLs[s] != "" {
			return a.AvatarURLs[s]
		}
	}
	for i := len(sizes) - 1; i >= 0; i-- {
		if u := a.AvatarURLs[sizes[i]]; u != "" {
			return u
		}
	}
	return ""
}

// EnrichedItem is a ContentItem with its image and author resolved. Media and
// Author are nil when the item has none or the lookup failed.
type EnrichedItem struct {
	ContentItem
	Media  *Media
	Author *Author

	PlainTitle string
	PlainText  string
}

// ImageURL returns the card background for preset, or fallback when the item
// has no resolved image.
func (e EnrichedItem) ImageURL(preset, fallback string) string {
	if e.Media != nil {
		if u := e.Media.URL(preset); u != "" {
			return u
		}
	}
	return fallback
}

// Description returns the plain body text truncated to max characters.
func (e EnrichedItem) Description(max int) string {
	return Truncate(e.PlainText, max)
}

// AvatarURL returns the card avatar, or "" when the author is unknown.
func (e EnrichedItem) AvatarURL() string {
	if e.Author == nil {
		return ""
	}
	return e.Author.Avatar(AvatarSize)
}
