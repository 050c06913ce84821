package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mwrona/jobscout/internal/model"
	"github.com/mwrona/jobscout/internal/retry"
)

// ReviewRunner drains unscored postings one at a time: pick the next
// unscored url, assess it, persist the verdict.
//
// The runner is strictly sequential, and exactly one runner must be active
// against a store at a time: NextUnscored followed by SubmitScore is a
// read-then-write cycle with no cross-process exclusivity, so two concurrent
// runners could assess the same url twice. The CLI constructs exactly one.
//
// Each step is retried independently. A crash between assessment and
// persistence therefore re-assesses the url on the next run; the webcache
// keeps the fetched content stable across such re-runs, but the assessor
// itself is not guaranteed to repeat its verdict.
type ReviewRunner struct {
	assessor  model.Assessor
	registry  model.Registry
	notifier  model.Notifier
	retryBase time.Duration
	logger    *slog.Logger
}

// NewReviewRunner creates a review runner wired with its dependencies.
func NewReviewRunner(
	assessor model.Assessor,
	registry model.Registry,
	notifier model.Notifier,
	retryBase time.Duration,
	logger *slog.Logger,
) *ReviewRunner {
	return &ReviewRunner{
		assessor:  assessor,
		registry:  registry,
		notifier:  notifier,
		retryBase: retryBase,
		logger:    logger,
	}
}

// Serve reviews unscored postings until none remain, then returns.
func (r *ReviewRunner) Serve(ctx context.Context) error {
	r.notify(model.Event{Kind: model.EventReviewRunStarted})

	type next struct {
		url string
		ok  bool
	}

	for {
		n, err := retry.Do(ctx, r.logger, r.retryBase, func() (next, error) {
			url, ok, err := r.registry.NextUnscored()
			return next{url: url, ok: ok}, err
		})
		if err != nil {
			return fmt.Errorf("finding next unscored url: %w", err)
		}
		if !n.ok {
			break
		}
		url := n.url

		r.notify(model.Event{Kind: model.EventReviewURLStarted, URL: url})

		review, err := r.reviewURL(ctx, url)
		if err != nil {
			return err
		}

		r.notify(model.Event{Kind: model.EventReviewURLCompleted, URL: url, Review: &review})
	}

	r.notify(model.Event{Kind: model.EventReviewRunCompleted})
	return nil
}

// reviewURL assesses one posting and persists the verdict. The assessment
// and the store write are retried separately, so a persistence failure does
// not trigger a re-assessment within the same cycle.
func (r *ReviewRunner) reviewURL(ctx context.Context, url string) (model.Review, error) {
	review, err := retry.Do(ctx, r.logger, r.retryBase, func() (model.Review, error) {
		return r.assessor.Assess(ctx, url)
	})
	if err != nil {
		return model.Review{}, fmt.Errorf("assessing %s: %w", url, err)
	}

	err = retry.DoVoid(ctx, r.logger, r.retryBase, func() error {
		return r.registry.SubmitScore(url, review)
	})
	if err != nil {
		return model.Review{}, fmt.Errorf("persisting score for %s: %w", url, err)
	}

	return review, nil
}

func (r *ReviewRunner) notify(e model.Event) {
	if err := r.notifier.Notify(e); err != nil {
		r.logger.Error("notification failed", "event", e.Kind, "error", err)
	}
}
