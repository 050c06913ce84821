package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwrona/jobscout/internal/config"
	"github.com/mwrona/jobscout/internal/webcache"
)

func collect(t *testing.T, s interface {
	Scrape(ctx context.Context, emit func(string) error) error
}) []string {
	t.Helper()
	var urls []string
	err := s.Scrape(context.Background(), func(url string) error {
		urls = append(urls, url)
		return nil
	})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	return urls
}

func TestStaticListEmitsConfiguredURLs(t *testing.T) {
	s := NewStaticList([]string{
		"https://example.com/job-a",
		"https://example.com/job-b",
	})

	urls := collect(t, s)
	if len(urls) != 2 || urls[0] != "https://example.com/job-a" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestJustJoinITPaginatesByCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["categories[]"]; len(got) != 1 || got[0] != "20" {
			t.Errorf("unexpected categories query: %v", got)
		}
		if r.URL.Query().Get("from") == "" {
			w.Write([]byte(`{
				"data": [{"slug": "backend-dev-abc"}, {"slug": "go-dev-def"}],
				"meta": {"next": {"cursor": "page2"}}
			}`))
			return
		}
		w.Write([]byte(`{
			"data": [{"slug": "platform-eng-ghi"}],
			"meta": {"next": {"cursor": null}}
		}`))
	}))
	defer srv.Close()

	s, err := NewJustJoinIT([]string{"go"})
	if err != nil {
		t.Fatalf("NewJustJoinIT: %v", err)
	}
	s.apiURL = srv.URL

	urls := collect(t, s)
	want := []string{
		"https://justjoin.it/job-offer/backend-dev-abc",
		"https://justjoin.it/job-offer/go-dev-def",
		"https://justjoin.it/job-offer/platform-eng-ghi",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %v", len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %s, want %s", i, urls[i], want[i])
		}
	}
}

func TestJustJoinITRejectsUnknownCategory(t *testing.T) {
	if _, err := NewJustJoinIT([]string{"basket-weaving"}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestNoFluffJobsPaginatesByPageCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/infiniteSearch+json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		switch r.URL.Query().Get("pageTo") {
		case "1":
			w.Write([]byte(`{"postings": [{"url": "backend-abc"}], "totalPages": 2}`))
		case "2":
			w.Write([]byte(`{"postings": [{"url": "devops-def"}], "totalPages": 2}`))
		default:
			t.Errorf("unexpected page: %s", r.URL.Query().Get("pageTo"))
		}
	}))
	defer srv.Close()

	s := NewNoFluffJobs([]string{"backend"})
	s.apiURL = srv.URL

	urls := collect(t, s)
	want := []string{
		"https://nofluffjobs.com/job/backend-abc",
		"https://nofluffjobs.com/job/devops-def",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %v", len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %s, want %s", i, urls[i], want[i])
		}
	}
}

func TestRemoteOKSkipsInvalidEntriesAndSeedsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"legal": "feed terms, no url here"},
			{"url": "https://remoteok.com/remote-jobs/1", "company": "CompanyX", "description": "desc one"},
			{"url": "https://remoteok.com/remote-jobs/2", "company": "", "description": "no company"},
			{"url": "https://remoteok.com/remote-jobs/3", "company": "CompanyY", "description": "desc three"}
		]`))
	}))
	defer srv.Close()

	cache := webcache.New(t.TempDir())
	s := NewRemoteOK(cache)
	s.apiURL = srv.URL

	urls := collect(t, s)
	want := []string{
		"https://remoteok.com/remote-jobs/1",
		"https://remoteok.com/remote-jobs/3",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %v", len(want), urls)
	}

	for _, url := range want {
		if !cache.Has(url) {
			t.Errorf("expected description cached for %s", url)
		}
	}
	content, err := cache.Fetch("https://remoteok.com/remote-jobs/1")
	if err != nil {
		t.Fatalf("Fetch from cache: %v", err)
	}
	if content != "desc one" {
		t.Errorf("cached content = %q", content)
	}
}

func TestFactoryRejectsUnknownSource(t *testing.T) {
	_, err := New(config.ScraperConfig{Source: "linkedin.com"}, webcache.New(t.TempDir()))
	if err == nil {
		t.Fatal("expected error for unknown source")
	}
	var unknownErr *UnknownSourceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownSourceError, got %v", err)
	}
	if unknownErr.Source != "linkedin.com" {
		t.Errorf("Source = %q", unknownErr.Source)
	}
}

func TestFactoryBuildsAllKnownSources(t *testing.T) {
	cache := webcache.New(t.TempDir())
	cfgs := []config.ScraperConfig{
		{Source: "list", List: []string{"https://example.com/job-a"}},
		{Source: "justjoin.it", Categories: []string{"go"}},
		{Source: "nofluffjobs.com", Categories: []string{"backend"}},
		{Source: "remoteok.com"},
	}

	scrapers, err := FromConfigs(cfgs, cache)
	if err != nil {
		t.Fatalf("FromConfigs: %v", err)
	}
	if len(scrapers) != len(cfgs) {
		t.Fatalf("expected %d scrapers, got %d", len(cfgs), len(scrapers))
	}
}
