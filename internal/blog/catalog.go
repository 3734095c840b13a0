// Package blog serves the marketing blog from a JSON file.
package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrNotFound is returned for unknown slugs.
var ErrNotFound = errors.New("article not found")

// Article is a full blog post.
type Article struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Content     string `json:"content"`
}

// Summary is an Article without its body, used for listings.
type Summary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// FileCatalog reads articles from a JSON array on disk. The file is parsed
// again whenever its modification time or size changes, so editors can
// publish without a restart.
type FileCatalog struct {
	path string

	mu       sync.RWMutex
	articles []Article
	modTime  time.Time
	size     int64
}

// NewFileCatalog builds a catalog for path. The file is read lazily.
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

// List returns article summaries in file order.
func (c *FileCatalog) List() ([]Summary, error) {
	articles, err := c.load()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(articles))
	for _, a := range articles {
		out = append(out, Summary{Slug: a.Slug, Title: a.Title, Description: a.Description, Date: a.Date})
	}
	return out, nil
}

// Get returns the article with slug or ErrNotFound.
func (c *FileCatalog) Get(slug string) (Article, error) {
	articles, err := c.load()
	if err != nil {
		return Article{}, err
	}
	for _, a := range articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func (c *FileCatalog) load() ([]Article, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("stat blog file: %w", err)
	}

	c.mu.RLock()
	fresh := c.articles != nil && info.ModTime().Equal(c.modTime) && info.Size() == c.size
	articles := c.articles
	c.mu.RUnlock()
	if fresh {
		return articles, nil
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read blog file: %w", err)
	}
	var parsed []Article
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode blog file: %w", err)
	}
	if parsed == nil {
		parsed = []Article{}
	}

	c.mu.Lock()
	c.articles = parsed
	c.modTime = info.ModTime()
	c.size = info.Size()
	c.mu.Unlock()
	return parsed, nil
}
