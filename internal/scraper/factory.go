// Package scraper holds the source adapters that discover posting urls.
// Sources form a closed enumeration; the factory fails fast on tags it does
// not know so a misconfigured source is caught at startup, not mid-run.
package scraper

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mwrona/jobscout/internal/config"
	"github.com/mwrona/jobscout/internal/model"
	"github.com/mwrona/jobscout/internal/webcache"
)

// UnknownSourceError is returned for a scraper source tag outside the known
// enumeration.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown scraper source: %s", e.Source)
}

// New builds the adapter for one configured source.
func New(cfg config.ScraperConfig, cache *webcache.Cache) (model.Scraper, error) {
	switch cfg.Source {
	case "list":
		return NewStaticList(cfg.List), nil
	case "justjoin.it":
		return NewJustJoinIT(cfg.Categories)
	case "nofluffjobs.com":
		return NewNoFluffJobs(cfg.Categories), nil
	case "remoteok.com":
		return NewRemoteOK(cache), nil
	default:
		return nil, &UnknownSourceError{Source: cfg.Source}
	}
}

// FromConfigs builds one adapter per configured source, in order.
func FromConfigs(cfgs []config.ScraperConfig, cache *webcache.Cache) ([]model.Scraper, error) {
	scrapers := make([]model.Scraper, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := New(cfg, cache)
		if err != nil {
			return nil, err
		}
		scrapers = append(scrapers, s)
	}
	return scrapers, nil
}

func newHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	return client
}
