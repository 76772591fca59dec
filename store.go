package storycarousel

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eringen/storycarousel/carousel"
)

// Store wraps a SQLite database holding blocks, local content, and image
// size presets.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the publish path read while the editor writes; busy_timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blocks (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    attributes TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS media (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    filename TEXT NOT NULL UNIQUE,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL,
    renditions TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL DEFAULT 'post',
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    category_id INTEGER NOT NULL DEFAULT 0,
    author_id INTEGER NOT NULL DEFAULT 0,
    featured_media INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_posts_listing ON posts(type, published, date);
CREATE TABLE IF NOT EXISTS image_sizes (
    name TEXT PRIMARY KEY,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS content_types (
    name TEXT PRIMARY KEY,
    label TEXT NOT NULL
);
`)
	if err != nil {
		return err
	}
	for name, d := range carousel.DefaultPresets {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO image_sizes (name, width, height) VALUES (?, ?, ?)`, name, d.Width, d.Height); err != nil {
			return err
		}
	}
	_, err = s.db.Exec(`INSERT OR IGNORE INTO content_types (name, label) VALUES ('post', 'Posts')`)
	return err
}

// --- Blocks ---

// CreateBlock stores a new block with default attributes.
func (s *Store) CreateBlock(name string) (Block, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	b := Block{
		ID:         uuid.NewString(),
		Name:       name,
		Attributes: carousel.Defaults().Attributes(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	attrs, err := json.Marshal(b.Attributes)
	if err != nil {
		return Block{}, fmt.Errorf("encode attributes: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO blocks (id, name, attributes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Name, string(attrs), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return Block{}, err
	}
	return s.GetBlock(b.ID)
}

// GetBlock returns a block by id.
func (s *Store) GetBlock(id string) (Block, error) {
	var b Block
	var attrs string
	err := s.db.QueryRow(`SELECT id, name, attributes, created_at, updated_at FROM blocks WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &attrs, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Block{}, err
	}
	b.Attributes = decodeAttributes(attrs)
	return b, nil
}

// ListBlocks returns every block, newest first.
func (s *Store) ListBlocks() ([]Block, error) {
	rows, err := s.db.Query(`SELECT id, name, attributes, created_at, updated_at FROM blocks ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		var b Block
		var attrs string
		if err := rows.Scan(&b.ID, &b.Name, &attrs, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Attributes = decodeAttributes(attrs)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// SaveBlockAttributes replaces a block's stored attributes with raw as given.
func (s *Store) SaveBlockAttributes(id string, raw map[string]interface{}) error {
	attrs, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	res, err := s.db.Exec(`UPDATE blocks SET attributes = ?, updated_at = ? WHERE id = ?`,
		string(attrs), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// RenameBlock changes a block's display name.
func (s *Store) RenameBlock(id, name string) error {
	res, err := s.db.Exec(`UPDATE blocks SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteBlock removes a block by id.
func (s *Store) DeleteBlock(id string) error {
	_, err := s.db.Exec(`DELETE FROM blocks WHERE id = ?`, id)
	return err
}

// decodeAttributes never fails: a corrupt row reads as empty attributes,
// which resolve to defaults.
func decodeAttributes(s string) map[string]interface{} {
	raw := map[string]interface{}{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return map[string]interface{}{}
	}
	return raw
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Posts ---

const postColumns = `id, type, slug, title, body, excerpt, date, category_id, author_id, featured_media, published`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(r rowScanner) (Post, error) {
	var p Post
	var published int
	err := r.Scan(&p.ID, &p.Type, &p.Slug, &p.Title, &p.Body, &p.Excerpt, &p.Date,
		&p.CategoryID, &p.AuthorID, &p.FeaturedMedia, &published)
	p.Published = published == 1
	return p, err
}

func (s *Store) queryPosts(query string, args ...interface{}) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// SavePost inserts p when p.ID is zero and updates it otherwise. It returns
// the post id.
func (s *Store) SavePost(p Post) (int64, error) {
	if p.Type == "" {
		p.Type = "post"
	}
	published := 0
	if p.Published {
		published = 1
	}
	if p.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO posts (type, slug, title, body, excerpt, date, category_id, author_id, featured_media, published)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Type, p.Slug, p.Title, p.Body, p.Excerpt, p.Date, p.CategoryID, p.AuthorID, p.FeaturedMedia, published)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return id, s.ensureContentType(p.Type)
	}
	res, err := s.db.Exec(`UPDATE posts SET type = ?, slug = ?, title = ?, body = ?, excerpt = ?, date = ?,
		category_id = ?, author_id = ?, featured_media = ?, published = ? WHERE id = ?`,
		p.Type, p.Slug, p.Title, p.Body, p.Excerpt, p.Date, p.CategoryID, p.AuthorID, p.FeaturedMedia, published, p.ID)
	if err != nil {
		return 0, err
	}
	if err := requireRow(res); err != nil {
		return 0, err
	}
	return p.ID, s.ensureContentType(p.Type)
}

// GetPost returns a post by id regardless of published status.
func (s *Store) GetPost(id int64) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
}

// GetPublishedPost returns a published post by slug.
func (s *Store) GetPublishedPost(slug string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug))
}

// ListAllPosts returns every post (published and drafts), newest first.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, id DESC`)
}

// ListPublished returns up to limit published posts of type, newest first.
// category may be a numeric id or a slug; empty means any category.
func (s *Store) ListPublished(typ, category string, limit int) ([]Post, error) {
	if category == "" {
		return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE type = ? AND published = 1
			ORDER BY date DESC, id DESC LIMIT ?`, typ, limit)
	}
	if id, err := strconv.ParseInt(category, 10, 64); err == nil {
		return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE type = ? AND published = 1 AND category_id = ?
			ORDER BY date DESC, id DESC LIMIT ?`, typ, id, limit)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE type = ? AND published = 1
		AND category_id = (SELECT id FROM categories WHERE slug = ?)
		ORDER BY date DESC, id DESC LIMIT ?`, typ, category, limit)
}

// DeletePost removes a post by id.
func (s *Store) DeletePost(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// --- Content types ---

func (s *Store) ensureContentType(name string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO content_types (name, label) VALUES (?, ?)`, name, name)
	return err
}

// ListContentTypes returns the content types posts have been stored under.
func (s *Store) ListContentTypes() ([]carousel.ContentType, error) {
	rows, err := s.db.Query(`SELECT name, label FROM content_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []carousel.ContentType
	for rows.Next() {
		var t carousel.ContentType
		if err := rows.Scan(&t.Name, &t.Label); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// --- Categories and authors ---

// SaveCategory upserts a category by slug and returns its id.
func (s *Store) SaveCategory(c Category) (int64, error) {
	if _, err := s.db.Exec(`INSERT INTO categories (slug, name) VALUES (?, ?)
		ON CONFLICT(slug) DO UPDATE SET name = excluded.name`, c.Slug, c.Name); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRow(`SELECT id FROM categories WHERE slug = ?`, c.Slug).Scan(&id)
	return id, err
}

// ListCategories returns every category by name.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, slug, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// SaveAuthor inserts an author and returns its id.
func (s *Store) SaveAuthor(a AuthorRecord) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO authors (name, avatar_url) VALUES (?, ?)`, a.Name, a.AvatarURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAuthor returns an author by id.
func (s *Store) GetAuthor(id int64) (AuthorRecord, error) {
	var a AuthorRecord
	err := s.db.QueryRow(`SELECT id, name, avatar_url FROM authors WHERE id = ?`, id).Scan(&a.ID, &a.Name, &a.AvatarURL)
	return a, err
}

// ListAuthors returns every author by name.
func (s *Store) ListAuthors() ([]AuthorRecord, error) {
	rows, err := s.db.Query(`SELECT id, name, avatar_url FROM authors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []AuthorRecord
	for rows.Next() {
		var a AuthorRecord
		if err := rows.Scan(&a.ID, &a.Name, &a.AvatarURL); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// --- Images ---

// SaveImage inserts image metadata and returns its id.
func (s *Store) SaveImage(img Image) (int64, error) {
	renditions, err := json.Marshal(img.Renditions)
	if err != nil {
		return 0, fmt.Errorf("encode renditions: %w", err)
	}
	res, err := s.db.Exec(`INSERT INTO media (filename, original_name, width, height, size, uploaded_at, renditions)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt, string(renditions))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const imageColumns = `id, filename, original_name, width, height, size, uploaded_at, renditions`

func scanImage(r rowScanner) (Image, error) {
	var img Image
	var renditions string
	if err := r.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt, &renditions); err != nil {
		return Image{}, err
	}
	img.Renditions = map[string]string{}
	_ = json.Unmarshal([]byte(renditions), &img.Renditions)
	return img, nil
}

// GetImage returns image metadata by id.
func (s *Store) GetImage(id int64) (Image, error) {
	return scanImage(s.db.QueryRow(`SELECT `+imageColumns+` FROM media WHERE id = ?`, id))
}

// ImageExists reports whether filename is already taken.
func (s *Store) ImageExists(filename string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM media WHERE filename = ?`, filename).Scan(&n)
	return n > 0, err
}

// ListImages returns every image, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT ` + imageColumns + ` FROM media ORDER BY uploaded_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by id.
func (s *Store) DeleteImage(id int64) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = ?`, id)
	return err
}

// --- Image sizes ---

// ListImageSizes returns every registered preset.
func (s *Store) ListImageSizes() ([]ImageSize, error) {
	rows, err := s.db.Query(`SELECT name, width, height FROM image_sizes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []ImageSize
	for rows.Next() {
		var sz ImageSize
		if err := rows.Scan(&sz.Name, &sz.Width, &sz.Height); err != nil {
			return nil, err
		}
		sizes = append(sizes, sz)
	}
	return sizes, rows.Err()
}

// SaveImageSize registers or replaces a preset.
func (s *Store) SaveImageSize(sz ImageSize) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO image_sizes (name, width, height) VALUES (?, ?, ?)`, sz.Name, sz.Width, sz.Height)
	return err
}
