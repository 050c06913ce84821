package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/mwrona/jobscout/internal/webcache"
)

const remoteOKFeedAPI = "https://remoteok.com/api"

// RemoteOK reads the remoteok.com JSON feed. The feed ships each posting's
// description inline, so the adapter pre-seeds the webcache with it and the
// review step never fetches the page.
type RemoteOK struct {
	cache  *webcache.Cache
	client *retryablehttp.Client
	apiURL string
}

// NewRemoteOK creates the adapter over the given webcache.
func NewRemoteOK(cache *webcache.Cache) *RemoteOK {
	return &RemoteOK{
		cache:  cache,
		client: newHTTPClient(),
		apiURL: remoteOKFeedAPI,
	}
}

// Scrape emits every feed entry that has a url and a company. The feed's
// first element is a legal notice without either, so it is skipped naturally.
func (s *RemoteOK) Scrape(ctx context.Context, emit func(url string) error) error {
	body, err := s.fetchFeed(ctx)
	if err != nil {
		return err
	}

	for _, item := range gjson.Parse(body).Array() {
		url := item.Get("url")
		if !url.Exists() || item.Get("company").String() == "" {
			continue
		}

		if err := s.cache.Store(url.String(), item.Get("description").String()); err != nil {
			return fmt.Errorf("caching remoteok description: %w", err)
		}
		if err := emit(url.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *RemoteOK) fetchFeed(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("building remoteok request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching remoteok feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching remoteok feed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading remoteok feed: %w", err)
	}
	return string(body), nil
}
