package model

import (
	"context"
	"time"
)

// Review is the assessor's verdict on a single posting. A negative score is
// the "content not accessible" sentinel: it is recorded like any other score
// but never appears in reports.
type Review struct {
	Company  string
	Position string
	Score    float64
	Notes    string
}

// Accessible reports whether the review carries a real verdict rather than
// the inaccessible-content sentinel.
func (r Review) Accessible() bool { return r.Score >= 0 }

// ScoreRecord is a persisted review, as read back from the registry.
type ScoreRecord struct {
	Review
	ScoredAt time.Time
}

// Report is the ranked aggregation over all reportable postings.
type Report struct {
	Companies []CompanyReport
}

// CompanyReport groups the surviving jobs of one company. TopJobScore is the
// maximum score among them and is what companies are ranked by.
type CompanyReport struct {
	Company     string
	TopJobScore float64
	Jobs        []JobReport
}

// JobReport is one surviving posting inside a company group.
type JobReport struct {
	URL      string
	Position string
	Score    float64
	Notes    string
}

// Registry is the durable store and sole owner of posting lifecycle state.
type Registry interface {
	// Register upserts a posting by url: new urls are inserted, known urls
	// get updated_at bumped and deleted_at cleared (revival).
	Register(url string) error
	// Unregister soft-deletes a posting. Unknown urls are a no-op.
	Unregister(url string) error
	// ActiveURLs returns all non-deleted urls in insertion order.
	ActiveURLs() ([]string, error)
	// NextUnscored returns one unscored active url. The second return is
	// false when no unscored postings remain. Pure read, safe to repeat.
	NextUnscored() (string, bool, error)
	// SubmitScore writes company, position, score, notes and scored_at in
	// a single atomic update.
	SubmitScore(url string, review Review) error
	// FindScore returns the stored record for a scored, active url, or nil.
	FindScore(url string) (*ScoreRecord, error)
	// GenerateReport runs the ranking aggregation over reportable postings.
	GenerateReport() (*Report, error)
}

// Scraper discovers posting urls from one source, invoking emit per url.
// Implementations may paginate over the network and fail transiently.
type Scraper interface {
	Scrape(ctx context.Context, emit func(url string) error) error
}

// Assessor scores a posting's relevance. Unreachable content is not an
// error: it yields the sentinel review (score -1), so the pipeline keeps
// moving.
type Assessor interface {
	Assess(ctx context.Context, url string) (Review, error)
}

// Notifier receives pipeline events. Sinks may render them anywhere or
// suppress them entirely; orchestrators treat sink failures as non-fatal.
type Notifier interface {
	Notify(e Event) error
}
