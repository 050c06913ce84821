// Package webcache caches posting page content on disk so repeated reviews
// of the same url do not re-fetch it.
package webcache

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrFetch marks a posting whose content could not be retrieved. Callers
// treat this as a domain outcome (the inaccessible-content sentinel), not a
// fault.
var ErrFetch = errors.New("fetching posting content")

// Cache stores one file per url under dir, keyed by host and path.
type Cache struct {
	dir    string
	client *retryablehttp.Client
}

// New creates a cache rooted at dir. The HTTP client retries transient
// failures on its own; a response that still cannot be obtained surfaces as
// ErrFetch.
func New(dir string) *Cache {
	client := retryablehttp.NewClient()
	client.Logger = nil
	return &Cache{dir: dir, client: client}
}

// Fetch returns the cached content for rawURL, fetching and caching it on a
// miss.
func (c *Cache) Fetch(rawURL string) (string, error) {
	filename, err := c.cacheFilename(rawURL)
	if err != nil {
		return "", err
	}

	if content, err := os.ReadFile(filename); err == nil {
		return string(content), nil
	}

	content, err := c.fetch(rawURL)
	if err != nil {
		return "", err
	}

	if err := writeFile(filename, content); err != nil {
		return "", err
	}
	return content, nil
}

// Store pre-seeds the cache. Sources that ship posting content inline use
// this so the review step never has to fetch the page.
func (c *Cache) Store(rawURL, content string) error {
	filename, err := c.cacheFilename(rawURL)
	if err != nil {
		return err
	}
	return writeFile(filename, content)
}

// Has reports whether content for rawURL is cached.
func (c *Cache) Has(rawURL string) bool {
	filename, err := c.cacheFilename(rawURL)
	if err != nil {
		return false
	}
	_, err = os.Stat(filename)
	return err == nil
}

func (c *Cache) fetch(rawURL string) (string, error) {
	resp, err := c.client.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: status %d", ErrFetch, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	return string(body), nil
}

// cacheFilename maps a url to dir/host/path.html. Urls come from scraped
// feeds, so a path whose ".." segments resolve outside the cache dir is
// rejected.
func (c *Cache) cacheFilename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %s: %w", rawURL, err)
	}

	path := u.Path
	if path == "" || path == "/" {
		path = "/index"
	}

	name := filepath.Join(c.dir, u.Host, path+".html")
	rel, err := filepath.Rel(c.dir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("url %s resolves outside the cache dir", rawURL)
	}
	return name, nil
}

func writeFile(filename, content string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}
