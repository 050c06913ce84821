package registry

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func newTestRegistry(t *testing.T) *SQLiteRegistry {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func mustRegister(t *testing.T, r *SQLiteRegistry, urls ...string) {
	t.Helper()
	for _, url := range urls {
		if err := r.Register(url); err != nil {
			t.Fatalf("Register(%s): %v", url, err)
		}
	}
}

func TestRegisterThenListActive(t *testing.T) {
	r := newTestRegistry(t)

	mustRegister(t, r,
		"https://example.com/job-a",
		"https://example.com/job-b",
		"https://example.com/job-c",
	)
	if err := r.Unregister("https://example.com/job-b"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	urls, err := r.ActiveURLs()
	if err != nil {
		t.Fatalf("ActiveURLs: %v", err)
	}
	want := []string{"https://example.com/job-a", "https://example.com/job-c"}
	if len(urls) != len(want) {
		t.Fatalf("expected %d active urls, got %d: %v", len(want), len(urls), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %s, want %s", i, urls[i], want[i])
		}
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	url := "https://example.com/job-a"

	mustRegister(t, r, url)

	var created1, updated1 time.Time
	err := r.db.QueryRow("SELECT created_at, updated_at FROM jobs WHERE url = ?", url).
		Scan(&created1, &updated1)
	if err != nil {
		t.Fatalf("reading timestamps: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	mustRegister(t, r, url)

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after duplicate registration, got %d", count)
	}

	var created2, updated2 time.Time
	err = r.db.QueryRow("SELECT created_at, updated_at FROM jobs WHERE url = ?", url).
		Scan(&created2, &updated2)
	if err != nil {
		t.Fatalf("reading timestamps: %v", err)
	}
	if !created2.Equal(created1) {
		t.Errorf("created_at changed on re-registration: %v -> %v", created1, created2)
	}
	if !updated2.After(updated1) {
		t.Errorf("updated_at not bumped on re-registration: %v -> %v", updated1, updated2)
	}
}

func TestUnregisterThenRegisterRevives(t *testing.T) {
	r := newTestRegistry(t)
	url := "https://example.com/job-a"

	mustRegister(t, r, url)
	if err := r.Unregister(url); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	urls, err := r.ActiveURLs()
	if err != nil {
		t.Fatalf("ActiveURLs: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("expected no active urls after unregister, got %v", urls)
	}

	mustRegister(t, r, url)

	urls, err = r.ActiveURLs()
	if err != nil {
		t.Fatalf("ActiveURLs: %v", err)
	}
	if len(urls) != 1 || urls[0] != url {
		t.Fatalf("expected revived url %s, got %v", url, urls)
	}
}

func TestUnregisterUnknownURLIsNoop(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Unregister("https://example.com/never-registered"); err != nil {
		t.Fatalf("Unregister of unknown url: %v", err)
	}
}

func TestNextUnscoredSkipsScoredAndDeleted(t *testing.T) {
	r := newTestRegistry(t)

	mustRegister(t, r,
		"https://example.com/job-a",
		"https://example.com/job-b",
		"https://example.com/job-c",
	)

	err := r.SubmitScore("https://example.com/job-a", testReview("Company A", "Position A", 1.23))
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if err := r.Unregister("https://example.com/job-c"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	url, ok, err := r.NextUnscored()
	if err != nil {
		t.Fatalf("NextUnscored: %v", err)
	}
	if !ok || url != "https://example.com/job-b" {
		t.Fatalf("expected job-b, got %q (ok=%v)", url, ok)
	}

	// Pure read: repeating the call returns the same url.
	again, ok, err := r.NextUnscored()
	if err != nil {
		t.Fatalf("NextUnscored: %v", err)
	}
	if !ok || again != url {
		t.Fatalf("expected repeated call to return %q, got %q (ok=%v)", url, again, ok)
	}
}

func TestNextUnscoredDrains(t *testing.T) {
	r := newTestRegistry(t)

	mustRegister(t, r, "https://example.com/job-a", "https://example.com/job-b")

	url, ok, err := r.NextUnscored()
	if err != nil || !ok {
		t.Fatalf("NextUnscored: %q, %v, %v", url, ok, err)
	}
	if url != "https://example.com/job-a" {
		t.Fatalf("expected job-a first, got %s", url)
	}

	if err := r.SubmitScore(url, testReview("Company A", "Position A", 1.23)); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}

	url, ok, err = r.NextUnscored()
	if err != nil || !ok {
		t.Fatalf("NextUnscored: %q, %v, %v", url, ok, err)
	}
	if url != "https://example.com/job-b" {
		t.Fatalf("expected job-b next, got %s", url)
	}

	if err := r.SubmitScore(url, testReview("Company B", "Position B", 4.56)); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}

	_, ok, err = r.NextUnscored()
	if err != nil {
		t.Fatalf("NextUnscored: %v", err)
	}
	if ok {
		t.Fatal("expected no unscored urls after scoring everything")
	}
}

func TestSubmitScoreThenFindScore(t *testing.T) {
	r := newTestRegistry(t)
	url := "https://example.com/job-a"

	mustRegister(t, r, url)

	rec, err := r.FindScore(url)
	if err != nil {
		t.Fatalf("FindScore: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no score before submission, got %+v", rec)
	}

	review := testReview("Company A", "Position A", 1.23)
	if err := r.SubmitScore(url, review); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}

	rec, err = r.FindScore(url)
	if err != nil {
		t.Fatalf("FindScore: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a score record after submission")
	}
	if rec.Review != review {
		t.Errorf("stored review = %+v, want %+v", rec.Review, review)
	}
	if rec.ScoredAt.IsZero() {
		t.Error("expected scored_at to be set")
	}
}

func TestFindScoreExcludesDeleted(t *testing.T) {
	r := newTestRegistry(t)
	url := "https://example.com/job-a"

	mustRegister(t, r, url)
	if err := r.SubmitScore(url, testReview("Company A", "Position A", 1.23)); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if err := r.Unregister(url); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	rec, err := r.FindScore(url)
	if err != nil {
		t.Fatalf("FindScore: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no score for deleted posting, got %+v", rec)
	}
}

func TestSubmitScoreUnknownURLIsNoop(t *testing.T) {
	r := newTestRegistry(t)

	err := r.SubmitScore("https://example.com/never-registered",
		testReview("Company A", "Position A", 1.23))
	if err != nil {
		t.Fatalf("SubmitScore against unknown url: %v", err)
	}

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows created by stray score submission, got %d", count)
	}
}
