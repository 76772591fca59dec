package storycarousel

import (
	"database/sql"
	"sync"
	"time"

	"github.com/eringen/storycarousel/carousel"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// PresetCache is an in-memory copy of the image size registry with TTL. It
// implements carousel.PresetRegistry for both renderers.
type PresetCache struct {
	mu      sync.RWMutex
	sizes   map[string]carousel.Dimensions
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPresetCache creates a PresetCache backed by the given Store.
func NewPresetCache(s *Store, ttl time.Duration) *PresetCache {
	return &PresetCache{store: s, ttl: ttl}
}

var _ carousel.PresetRegistry = (*PresetCache)(nil)

func (c *PresetCache) valid() bool {
	return c.sizes != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PresetCache) Invalidate() {
	c.mu.Lock()
	c.sizes = nil
	c.mu.Unlock()
}

func (c *PresetCache) load() error {
	if c.valid() {
		return nil
	}
	sizes, err := c.store.ListImageSizes()
	if err != nil {
		return err
	}
	m := make(map[string]carousel.Dimensions, len(sizes))
	for _, sz := range sizes {
		m[sz.Name] = carousel.Dimensions{Width: sz.Width, Height: sz.Height}
	}
	c.sizes = m
	c.fetched = time.Now()
	return nil
}

// ensureLoaded tries a read lock first and only takes the write lock when a
// reload is needed.
func (c *PresetCache) ensureLoaded() (map[string]carousel.Dimensions, error) {
	c.mu.RLock()
	if c.valid() {
		sizes := c.sizes
		c.mu.RUnlock()
		return sizes, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.sizes, nil
}

// Preset implements carousel.PresetRegistry. A registry that cannot be read
// resolves nothing, which sends callers to the custom dimensions.
func (c *PresetCache) Preset(name string) (carousel.Dimensions, bool) {
	sizes, err := c.ensureLoaded()
	if err != nil {
		return carousel.Dimensions{}, false
	}
	d, ok := sizes[name]
	return d, ok
}

// Save registers a preset and drops the cached copy.
func (c *PresetCache) Save(sz ImageSize) error {
	if err := c.store.SaveImageSize(sz); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}
