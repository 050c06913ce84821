package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	noFluffJobsPostingBase = "https://nofluffjobs.com/job/"
	noFluffJobsSearchAPI   = "https://nofluffjobs.com/api/search/posting"

	// The search API rejects the standard JSON content type.
	noFluffJobsContentType = "application/infiniteSearch+json"
)

// NoFluffJobs walks the nofluffjobs.com page-numbered search API and emits
// one posting url per result.
type NoFluffJobs struct {
	categories []string
	client     *retryablehttp.Client
	apiURL     string
}

// NewNoFluffJobs creates the adapter; categories narrow the search criteria
// and may be empty.
func NewNoFluffJobs(categories []string) *NoFluffJobs {
	return &NoFluffJobs{
		categories: categories,
		client:     newHTTPClient(),
		apiURL:     noFluffJobsSearchAPI,
	}
}

// Scrape pages through search results until totalPages is reached.
func (s *NoFluffJobs) Scrape(ctx context.Context, emit func(url string) error) error {
	for page := 1; ; page++ {
		body, err := s.fetchPage(ctx, page)
		if err != nil {
			return err
		}

		for _, slug := range gjson.Get(body, "postings.#.url").Array() {
			if err := emit(noFluffJobsPostingBase + slug.String()); err != nil {
				return err
			}
		}

		if int(gjson.Get(body, "totalPages").Int()) <= page {
			return nil
		}
	}
}

func (s *NoFluffJobs) fetchPage(ctx context.Context, page int) (string, error) {
	criteria := map[string]any{}
	if len(s.categories) > 0 {
		criteria["category"] = s.categories
	}
	reqBody, err := json.Marshal(map[string]any{"criteriaSearch": criteria})
	if err != nil {
		return "", fmt.Errorf("encoding nofluffjobs criteria: %w", err)
	}

	query := url.Values{
		"pageTo":         {strconv.Itoa(page)},
		"salaryCurrency": {"EUR"},
		"salaryPeriod":   {"year"},
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, s.apiURL+"?"+query.Encode(), reqBody)
	if err != nil {
		return "", fmt.Errorf("building nofluffjobs request: %w", err)
	}
	req.Header.Set("Content-Type", noFluffJobsContentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching nofluffjobs postings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching nofluffjobs postings: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading nofluffjobs response: %w", err)
	}
	return string(body), nil
}
