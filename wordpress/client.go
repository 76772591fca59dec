// Package wordpress reads posts, media, users, and post types from a
// WordPress site's wp/v2 REST API.
package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eringen/storycarousel/carousel"
)

// ErrCategoryNotFound is returned when a category slug matches nothing.
var ErrCategoryNotFound = errors.New("wordpress: category not found")

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordpress: %s returned status %d", e.URL, e.Code)
}

// Client talks to one site. It implements carousel.Source and
// carousel.TypeLister.
type Client struct {
	base        string
	http        *http.Client
	user        string
	appPassword string

	mu        sync.Mutex
	restBases map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAppPassword authenticates requests with an application password.
func WithAppPassword(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.appPassword = password
	}
}

// New returns a client for the site at siteURL. siteURL may be the site root
// or its /wp-json root.
func New(siteURL string, opts ...Option) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(siteURL), "/")
	base = strings.TrimSuffix(base, "/wp-json")
	c := &Client{
		base: base + "/wp-json/wp/v2/",
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ carousel.Source = (*Client)(nil)
var _ carousel.TypeLister = (*Client)(nil)

type rendered struct {
	Rendered string `json:"rendered"`
}

type postJSON struct {
	ID            int64    `json:"id"`
	Type          string   `json:"type"`
	Link          string   `json:"link"`
	Date          string   `json:"date"`
	Title         rendered `json:"title"`
	Content       rendered `json:"content"`
	Excerpt       rendered `json:"excerpt"`
	FeaturedMedia int64    `json:"featured_media"`
	Author        int64    `json:"author"`
}

// List implements carousel.Lister.
func (c *Client) List(ctx context.Context, q carousel.Query) ([]carousel.ContentItem, error) {
	base, err := c.restBase(ctx, q.ContentType)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(q.PerPage))
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Category != "" {
		id, err := c.categoryID(ctx, q.Category)
		if err != nil {
			return nil, err
		}
		params.Set("categories", strconv.FormatInt(id, 10))
	}

	var posts []postJSON
	if err := c.get(ctx, base, params, &posts); err != nil {
		return nil, err
	}
	items := make([]carousel.ContentItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, carousel.ContentItem{
			ID:              p.ID,
			Type:            p.Type,
			Title:           p.Title.Rendered,
			Link:            p.Link,
			Body:            p.Content.Rendered,
			Excerpt:         p.Excerpt.Rendered,
			Date:            p.Date,
			FeaturedMediaID: p.FeaturedMedia,
			AuthorID:        p.Author,
		})
	}
	return items, nil
}

type mediaJSON struct {
	ID           int64  `json:"id"`
	SourceURL    string `json:"source_url"`
	MediaDetails struct {
		Width  int `json:"width"`
		Height int `json:"height"`
		Sizes  map[string]struct {
			SourceURL string `json:"source_url"`
		} `json:"sizes"`
	} `json:"media_details"`
}

// Media implements carousel.MediaLookup.
func (c *Client) Media(ctx context.Context, id int64) (carousel.Media, error) {
	var m mediaJSON
	if err := c.get(ctx, "media/"+strconv.FormatInt(id, 10), nil, &m); err != nil {
		return carousel.Media{}, err
	}
	out := carousel.Media{
		ID:        m.ID,
		SourceURL: m.SourceURL,
		Width:     m.MediaDetails.Width,
		Height:    m.MediaDetails.Height,
		Sizes:     make(map[string]string, len(m.MediaDetails.Sizes)),
	}
	for name, s := range m.MediaDetails.Sizes {
		out.Sizes[name] = s.SourceURL
	}
	return out, nil
}

type userJSON struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	AvatarURLs map[string]string `json:"avatar_urls"`
}

// Author implements carousel.AuthorLookup.
func (c *Client) Author(ctx context.Context, id int64) (carousel.Author, error) {
	var u userJSON
	if err := c.get(ctx, "users/"+strconv.FormatInt(id, 10), nil, &u); err != nil {
		return carousel.Author{}, err
	}
	a := carousel.Author{ID: u.ID, Name: u.Name, AvatarURLs: make(map[int]string, len(u.AvatarURLs))}
	for size, link := range u.AvatarURLs {
		if n, err := strconv.Atoi(size); err == nil {
			a.AvatarURLs[n] = link
		}
	}
	return a, nil
}

type typeJSON struct {
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	RestBase string          `json:"rest_base"`
	Icon     json.RawMessage `json:"icon"`
}

// Types a carousel never lists.
var excludedTypes = map[string]bool{"attachment": true, "media": true, "page": true}

// ContentTypes implements carousel.TypeLister. Types without a menu icon are
// internal (blocks, templates, navigation) and are left out.
func (c *Client) ContentTypes(ctx context.Context) ([]carousel.ContentType, error) {
	types, err := c.types(ctx)
	if err != nil {
		return nil, err
	}
	var out []carousel.ContentType
	for slug, t := range types {
		if excludedTypes[slug] || !hasIcon(t.Icon) {
			continue
		}
		out = append(out, carousel.ContentType{Name: slug, Label: t.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func hasIcon(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null" && s != `""` && s != "false"
}

func (c *Client) types(ctx context.Context) (map[string]typeJSON, error) {
	var types map[string]typeJSON
	if err := c.get(ctx, "types", nil, &types); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.restBases = make(map[string]string, len(types))
	for slug, t := range types {
		if t.RestBase != "" {
			c.restBases[slug] = t.RestBase
		}
	}
	c.mu.Unlock()
	return types, nil
}

// restBase maps a type name to its collection path. "post" lives at
// "posts", and custom types may register any base.
func (c *Client) restBase(ctx context.Context, typeName string) (string, error) {
	c.mu.Lock()
	known := c.restBases != nil
	base, ok := c.restBases[typeName]
	c.mu.Unlock()
	if ok {
		return base, nil
	}
	if !known {
		if _, err := c.types(ctx); err == nil {
			c.mu.Lock()
			base, ok = c.restBases[typeName]
			c.mu.Unlock()
			if ok {
				return base, nil
			}
		}
	}
	switch typeName {
	case "post":
		return "posts", nil
	case "page":
		return "pages", nil
	}
	return typeName, nil
}

// categoryID accepts a numeric id or a slug.
func (c *Client) categoryID(ctx context.Context, category string) (int64, error) {
	if id, err := strconv.ParseInt(category, 10, 64); err == nil {
		return id, nil
	}
	var cats []struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, "categories", url.Values{"slug": {category}}, &cats); err != nil {
		return 0, err
	}
	if len(cats) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	return cats[0].ID, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("wordpress: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.appPassword)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress: get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, URL: u}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wordpress: decode %s: %w", path, err)
	}
	return nil
}
