package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/mwrona/jobscout/internal/model"
)

// reportableRow is one posting eligible for aggregation: active, scored with
// a non-negative score, and with a known company.
type reportableRow struct {
	url       string
	company   string
	position  string
	score     float64
	notes     string
	createdAt time.Time
}

// GenerateReport builds the ranked report:
//
//  1. Scan reportable postings.
//  2. Per (company, position) pair keep only the best posting — highest
//     score, ties broken by most recent created_at. This collapses
//     near-identical re-posts of the same role.
//  3. Group survivors by company; a company's top_job_score is the max score
//     among its survivors.
//  4. Companies are ordered by top_job_score descending, jobs within a
//     company by score descending.
//
// The ranking runs in memory over a plain scan; the store only filters.
func (r *SQLiteRegistry) GenerateReport() (*model.Report, error) {
	reportable, err := r.reportableRows()
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]reportableRow)
	for _, row := range dedupe(reportable) {
		groups[row.company] = append(groups[row.company], row)
	}

	report := &model.Report{}
	for company, rows := range groups {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].score != rows[j].score {
				return rows[i].score > rows[j].score
			}
			if !rows[i].createdAt.Equal(rows[j].createdAt) {
				return rows[i].createdAt.After(rows[j].createdAt)
			}
			return rows[i].url < rows[j].url
		})

		jobs := make([]model.JobReport, len(rows))
		for i, row := range rows {
			jobs[i] = model.JobReport{
				URL:      row.url,
				Position: row.position,
				Score:    row.score,
				Notes:    row.notes,
			}
		}

		report.Companies = append(report.Companies, model.CompanyReport{
			Company:     company,
			TopJobScore: rows[0].score,
			Jobs:        jobs,
		})
	}

	sort.Slice(report.Companies, func(i, j int) bool {
		if report.Companies[i].TopJobScore != report.Companies[j].TopJobScore {
			return report.Companies[i].TopJobScore > report.Companies[j].TopJobScore
		}
		return report.Companies[i].Company < report.Companies[j].Company
	})

	return report, nil
}

// dedupe keeps the top-ranked posting per (company, position) pair.
func dedupe(rows []reportableRow) []reportableRow {
	type roleKey struct {
		company  string
		position string
	}

	best := make(map[roleKey]reportableRow)
	for _, row := range rows {
		k := roleKey{company: row.company, position: row.position}
		cur, seen := best[k]
		if !seen {
			best[k] = row
			continue
		}
		if row.score > cur.score ||
			(row.score == cur.score && row.createdAt.After(cur.createdAt)) {
			best[k] = row
		}
	}

	deduped := make([]reportableRow, 0, len(best))
	for _, row := range best {
		deduped = append(deduped, row)
	}
	return deduped
}

func (r *SQLiteRegistry) reportableRows() ([]reportableRow, error) {
	rows, err := r.db.Query(`SELECT url, company, position, score, notes, created_at
		FROM jobs
		WHERE score >= 0
		AND company IS NOT NULL AND company != ''
		AND deleted_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying reportable postings: %w", err)
	}
	defer rows.Close()

	var result []reportableRow
	for rows.Next() {
		var row reportableRow
		err := rows.Scan(&row.url, &row.company, &row.position,
			&row.score, &row.notes, &row.createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning reportable posting: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying reportable postings: %w", err)
	}
	return result, nil
}
