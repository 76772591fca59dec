// Package views holds the page components. Pages are markup trees wrapped
// in templ components so handlers render them with the same helpers.
package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/storycarousel/carousel"
)

// Site carries site-wide settings into every page.
type Site struct {
	Name string
	URL  string
}

// Post is a published local post.
type Post struct {
	Title    string
	Date     string
	Author   string
	ImageURL string
	Body     templ.Component
}

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// BlockRow lists a block on the dashboard.
type BlockRow struct {
	ID        string
	Name      string
	UpdatedAt string
}

// PostRow lists a post on the dashboard.
type PostRow struct {
	ID        int64
	Type      string
	Slug      string
	Title     string
	Date      string
	Published bool
}

// ImageRow lists an uploaded image.
type ImageRow struct {
	ID       int64
	Filename string
	URL      string
	Width    int
	Height   int
}

// SizeRow lists an image size preset.
type SizeRow struct {
	Name   string
	Width  int
	Height int
}

// Dashboard is everything the admin dashboard shows. Content sections only
// appear when content is stored locally.
type Dashboard struct {
	Message      string
	LocalContent bool
	Blocks       []BlockRow
	Posts        []PostRow
	Categories   []Option
	Authors      []Option
	Images       []ImageRow
	Sizes        []SizeRow
}

// Editor is the block editor page state.
type Editor struct {
	BlockID string
	Name    string
	Config  carousel.Config
	Types   []carousel.ContentType
	Preview carousel.Preview
}
