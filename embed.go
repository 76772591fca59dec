package storycarousel

import "embed"

// EmbeddedAssets contains the client assets shipped with the service:
// carousel.js, carousel.css, editor.js, site.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
