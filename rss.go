package storycarousel

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/storycarousel/carousel"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Author      string        `xml:"author,omitempty"`
	PubDate     string        `xml:"pubDate,omitempty"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// feedDate accepts the local YYYY-MM-DD form and the WordPress
// timestamp form.
func feedDate(s string) string {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC1123Z)
		}
	}
	return ""
}

// renderRSS writes the block's current items as an RSS 2.0 channel. Item
// descriptions are the same truncated plain text the cards show.
func (a *App) renderRSS(c echo.Context, b Block, cfg carousel.Config, items []carousel.EnrichedItem) error {
	out := make([]rssItem, 0, len(items))
	for _, it := range items {
		ri := rssItem{
			Title:       it.PlainTitle,
			Link:        it.Link,
			Description: it.Description(cfg.DescriptionMaxChars),
			PubDate:     feedDate(it.Date),
			GUID:        it.Link,
		}
		if it.Author != nil {
			ri.Author = it.Author.Name
		}
		if u := it.ImageURL(cfg.ImageSizePreset, ""); u != "" {
			ri.Enclosure = &rssEnclosure{URL: u, Type: "image/jpeg"}
		}
		out = append(out, ri)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name + ": " + b.Name,
			Link:        BuildURL(a.Config.URL, "blocks", b.ID),
			Description: b.Name,
			Items:       out,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
