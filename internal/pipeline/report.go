package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mwrona/jobscout/internal/model"
)

// ReportRunner is a stateless trigger: aggregate, hand the report to the
// notification boundary. Aggregation is a pure read, so there is no retry;
// if it fails, the run fails. Sink errors are logged, never fatal.
type ReportRunner struct {
	registry model.Registry
	notifier model.Notifier
	logger   *slog.Logger
}

// NewReportRunner creates a report runner.
func NewReportRunner(registry model.Registry, notifier model.Notifier, logger *slog.Logger) *ReportRunner {
	return &ReportRunner{
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// Serve generates the report and emits it.
func (r *ReportRunner) Serve(ctx context.Context) error {
	report, err := r.registry.GenerateReport()
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	if err := r.notifier.Notify(model.Event{Kind: model.EventReportGenerated, Report: report}); err != nil {
		r.logger.Error("report notification failed", "error", err)
	}

	r.logger.Info("report generated", "companies", len(report.Companies))
	return nil
}
