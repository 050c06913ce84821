// Package pipeline contains the orchestrators that drive postings from
// discovered to scored to reported. Orchestrators own no posting state;
// the registry does. They wrap registry and assessor calls in the retry
// policy so transient failures do not abort a run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwrona/jobscout/internal/model"
	"github.com/mwrona/jobscout/internal/retry"
)

// ScrapeRunner registers every url one source discovers. One runner exists
// per configured source; runners are independent and share only the
// registry.
type ScrapeRunner struct {
	Name      string
	scraper   model.Scraper
	registry  model.Registry
	notifier  model.Notifier
	retryBase time.Duration
	logger    *slog.Logger
}

// NewScrapeRunner creates a runner for one source.
func NewScrapeRunner(
	name string,
	scraper model.Scraper,
	registry model.Registry,
	notifier model.Notifier,
	retryBase time.Duration,
	logger *slog.Logger,
) *ScrapeRunner {
	return &ScrapeRunner{
		Name:      name,
		scraper:   scraper,
		registry:  registry,
		notifier:  notifier,
		retryBase: retryBase,
		logger:    logger,
	}
}

// Serve consumes the source's url stream, registering each url with retry.
// A notification failure is logged and does not abort an otherwise
// successful registration.
func (r *ScrapeRunner) Serve(ctx context.Context) error {
	found := 0
	err := r.scraper.Scrape(ctx, func(url string) error {
		err := retry.DoVoid(ctx, r.logger, r.retryBase, func() error {
			return r.registry.Register(url)
		})
		if err != nil {
			return fmt.Errorf("registering %s: %w", url, err)
		}
		found++

		if err := r.notifier.Notify(model.Event{Kind: model.EventURLFound, URL: url}); err != nil {
			r.logger.Error("notification failed",
				"source", r.Name,
				"event", model.EventURLFound,
				"url", url,
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scraping %s: %w", r.Name, err)
	}

	r.logger.Info("scraped source", "source", r.Name, "found", found)
	return nil
}

// RunScrapers serves all runners concurrently, one goroutine per source, and
// waits for every one to finish. A failing source does not stop its
// siblings; the first failure is surfaced after the join.
func RunScrapers(ctx context.Context, runners []*ScrapeRunner) error {
	var g errgroup.Group
	for _, r := range runners {
		g.Go(func() error {
			return r.Serve(ctx)
		})
	}
	return g.Wait()
}
