package model

// EventKind enumerates every event the pipeline emits. Keeping this a closed
// enum (rather than free-form strings) lets sinks switch exhaustively and
// fall back explicitly on kinds they do not render.
type EventKind int

const (
	EventURLFound EventKind = iota
	EventReviewRunStarted
	EventReviewURLStarted
	EventReviewURLCompleted
	EventReviewRunCompleted
	EventReportGenerated
)

// String returns the dotted event name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventURLFound:
		return "scrape.url_found"
	case EventReviewRunStarted:
		return "review.run_started"
	case EventReviewURLStarted:
		return "review.url_started"
	case EventReviewURLCompleted:
		return "review.url_completed"
	case EventReviewRunCompleted:
		return "review.run_completed"
	case EventReportGenerated:
		return "report.generated"
	}
	return "unknown"
}

// Event is a pipeline notification. URL, Review and Report are populated
// depending on Kind; unused fields are zero.
type Event struct {
	Kind   EventKind
	URL    string
	Review *Review
	Report *Report
}
