package notifier

import (
	"fmt"
	"html/template"
	"os"

	"github.com/mwrona/jobscout/internal/model"
)

// Ensure HTMLReport implements model.Notifier.
var _ model.Notifier = (*HTMLReport)(nil)

// topJobsCount is how many jobs per company are shown expanded; the rest go
// into a collapsed section.
const topJobsCount = 3

// HTMLReport writes the generated report to a standalone HTML file. All
// other events are ignored.
type HTMLReport struct {
	filename string
	tmpl     *template.Template
}

// NewHTMLReport returns a sink rendering reports to filename.
func NewHTMLReport(filename string) *HTMLReport {
	return &HTMLReport{
		filename: filename,
		tmpl:     template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate)),
	}
}

// Filename returns the output path.
func (h *HTMLReport) Filename() string { return h.filename }

// Notify renders report.generated events; everything else is a no-op.
func (h *HTMLReport) Notify(e model.Event) error {
	if e.Kind != model.EventReportGenerated || e.Report == nil {
		return nil
	}

	f, err := os.Create(h.filename)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := h.tmpl.Execute(f, e.Report); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

var reportFuncs = template.FuncMap{
	"companyBadge": func(c model.CompanyReport) string {
		switch {
		case c.TopJobScore >= 3.0:
			return "high"
		case c.TopJobScore >= 2.0:
			return "medium"
		default:
			return "low"
		}
	},
	"jobBadge": func(j model.JobReport) string {
		switch {
		case j.Score >= 3.0:
			return "badge-success"
		case j.Score >= 2.0:
			return "badge-warning"
		default:
			return "badge-secondary"
		}
	},
	"topJobs": func(jobs []model.JobReport) []model.JobReport {
		if len(jobs) > topJobsCount {
			return jobs[:topJobsCount]
		}
		return jobs
	},
	"moreJobs": func(jobs []model.JobReport) []model.JobReport {
		if len(jobs) > topJobsCount {
			return jobs[topJobsCount:]
		}
		return nil
	},
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Job Report</title>
<style>
  body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
  .company { border: 1px solid #ddd; border-radius: 6px; margin-bottom: 1rem; padding: 1rem; }
  .company h2 { margin: 0 0 .5rem 0; }
  .badge { border-radius: 4px; padding: .1rem .5rem; font-size: .85rem; color: #fff; }
  .high { background: #2e7d32; }
  .medium { background: #f9a825; }
  .low { background: #757575; }
  .badge-success { background: #2e7d32; }
  .badge-warning { background: #f9a825; color: #222; }
  .badge-secondary { background: #757575; }
  .job { margin: .4rem 0; }
  .notes { color: #555; font-size: .9rem; margin: .1rem 0 .5rem 0; }
  details { margin-top: .5rem; }
</style>
</head>
<body>
<h1>Job Report</h1>
{{range .Companies}}
<div class="company">
  <h2>{{.Company}} <span class="badge {{companyBadge .}}">{{printf "%.2f" .TopJobScore}}</span></h2>
  {{range topJobs .Jobs}}
  <div class="job">
    <span class="badge {{jobBadge .}}">{{printf "%.2f" .Score}}</span>
    <a href="{{.URL}}">{{.Position}}</a>
    <div class="notes">{{.Notes}}</div>
  </div>
  {{end}}
  {{with moreJobs .Jobs}}
  <details>
    <summary>More jobs</summary>
    {{range .}}
    <div class="job">
      <span class="badge {{jobBadge .}}">{{printf "%.2f" .Score}}</span>
      <a href="{{.URL}}">{{.Position}}</a>
      <div class="notes">{{.Notes}}</div>
    </div>
    {{end}}
  </details>
  {{end}}
</div>
{{else}}
<p>No reportable postings yet.</p>
{{end}}
</body>
</html>
`
