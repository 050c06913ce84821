package registry

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mwrona/jobscout/internal/model"
)

// Ensure SQLiteRegistry implements model.Registry.
var _ model.Registry = (*SQLiteRegistry)(nil)

// SQLiteRegistry persists posting lifecycle state in a SQLite database.
// Postings are soft-deleted only; a row, once inserted, is never removed.
type SQLiteRegistry struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the registry database at dbPath and ensures the
// jobs table exists.
func Open(dbPath string, logger *slog.Logger) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening registry db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging registry db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS jobs (
		url        TEXT NOT NULL,
		company    TEXT,
		position   TEXT,
		score      NUMERIC,
		notes      TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		scored_at  DATETIME,
		deleted_at DATETIME,
		PRIMARY KEY (url)
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteRegistry{db: db, logger: logger}, nil
}

// Register upserts a posting by url. A new url is inserted with created_at =
// updated_at = now; a known url (including a soft-deleted one) gets
// updated_at bumped and deleted_at cleared. The conflict clause makes
// concurrent registrations of the same url safe: the store serializes them,
// never producing duplicate rows.
func (r *SQLiteRegistry) Register(url string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`INSERT INTO jobs (url, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (url)
		DO UPDATE SET updated_at = ?, deleted_at = NULL`,
		url, now, now, now)
	if err != nil {
		return fmt.Errorf("registering %s: %w", url, err)
	}
	return nil
}

// Unregister soft-deletes a posting by setting deleted_at. An unknown url is
// a no-op, not an error.
func (r *SQLiteRegistry) Unregister(url string) error {
	_, err := r.db.Exec("UPDATE jobs SET deleted_at = ? WHERE url = ?",
		time.Now().UTC(), url)
	if err != nil {
		return fmt.Errorf("unregistering %s: %w", url, err)
	}
	return nil
}

// ActiveURLs returns all non-deleted urls in insertion order.
func (r *SQLiteRegistry) ActiveURLs() ([]string, error) {
	rows, err := r.db.Query(
		"SELECT url FROM jobs WHERE deleted_at IS NULL ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing active urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning active url: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing active urls: %w", err)
	}
	return urls, nil
}

// NextUnscored returns the oldest unscored active url. The boolean is false
// when every active posting has been scored. Pure read; calling it twice
// without an intervening SubmitScore returns the same url.
func (r *SQLiteRegistry) NextUnscored() (string, bool, error) {
	var url string
	err := r.db.QueryRow(`SELECT url FROM jobs
		WHERE score IS NULL AND deleted_at IS NULL
		ORDER BY rowid LIMIT 1`).Scan(&url)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("finding unscored url: %w", err)
	}
	return url, true, nil
}

// SubmitScore writes the review fields and scored_at in one atomic update.
// An update against an unknown url affects zero rows; that is logged but
// treated as success, matching the idempotent-update semantics of Register.
func (r *SQLiteRegistry) SubmitScore(url string, review model.Review) error {
	res, err := r.db.Exec(`UPDATE jobs
		SET company = ?, position = ?, score = ?, notes = ?, scored_at = ?
		WHERE url = ?`,
		review.Company, review.Position, review.Score, review.Notes,
		time.Now().UTC(), url)
	if err != nil {
		return fmt.Errorf("submitting score for %s: %w", url, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.logger.Warn("score submitted for unknown url", "url", url)
	}
	return nil
}

// FindScore returns the stored score record for url, or nil if the posting
// is unscored, soft-deleted, or unknown.
func (r *SQLiteRegistry) FindScore(url string) (*model.ScoreRecord, error) {
	var (
		company, position, notes sql.NullString
		score                    float64
		scoredAt                 time.Time
	)
	err := r.db.QueryRow(`SELECT company, position, score, notes, scored_at
		FROM jobs
		WHERE url = ? AND score IS NOT NULL AND deleted_at IS NULL`,
		url).Scan(&company, &position, &score, &notes, &scoredAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding score for %s: %w", url, err)
	}

	return &model.ScoreRecord{
		Review: model.Review{
			Company:  company.String,
			Position: position.String,
			Score:    score,
			Notes:    notes.String,
		},
		ScoredAt: scoredAt,
	}, nil
}

// Close closes the underlying database connection.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
