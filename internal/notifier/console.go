// Package notifier renders pipeline events to the configured sinks. The
// pipeline core treats sinks as fire-and-forget: a sink failure is logged by
// the orchestrator, never propagated into the run.
package notifier

import (
	"fmt"
	"io"

	"github.com/mwrona/jobscout/internal/model"
)

// Ensure Console implements model.Notifier.
var _ model.Notifier = (*Console)(nil)

// Console renders events as human-readable lines.
type Console struct {
	out io.Writer
}

// NewConsole returns a console sink writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Notify renders one event. Kinds without a dedicated rendering fall through
// to a generic line so no event disappears silently.
func (c *Console) Notify(e model.Event) error {
	switch e.Kind {
	case model.EventURLFound:
		return c.printf("Found: %s\n", e.URL)

	case model.EventReviewRunStarted:
		return c.printf("Unscored URL review started ...\n\n")

	case model.EventReviewURLStarted:
		return c.printf("%s ...\n", e.URL)

	case model.EventReviewURLCompleted:
		return c.printReview(e.Review)

	case model.EventReviewRunCompleted:
		return c.printf("Unscored URL review completed.\n")

	case model.EventReportGenerated:
		return c.printReport(e.Report)

	default:
		return c.printf("[%s] %+v\n", e.Kind, e)
	}
}

func (c *Console) printReview(review *model.Review) error {
	if review == nil {
		return nil
	}

	flame := ""
	if review.Score >= 2.5 {
		flame = "🔥"
	}

	if err := c.printf("Company:  %s\n", review.Company); err != nil {
		return err
	}
	if err := c.printf("Position: %s\n", review.Position); err != nil {
		return err
	}
	if err := c.printf("Score:    %.2f%s\n", review.Score, flame); err != nil {
		return err
	}
	return c.printf("%s\n\n", review.Notes)
}

func (c *Console) printReport(report *model.Report) error {
	if report == nil {
		return nil
	}

	for _, company := range report.Companies {
		if err := c.printf("%s (top score %.2f)\n", company.Company, company.TopJobScore); err != nil {
			return err
		}
		for _, job := range company.Jobs {
			if err := c.printf("  %.2f  %s\n        %s\n", job.Score, job.Position, job.URL); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Console) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		return fmt.Errorf("writing to console: %w", err)
	}
	return nil
}
