package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	justJoinITOfferBase = "https://justjoin.it/job-offer/"
	justJoinITCursorAPI = "https://api.justjoin.it/v2/user-panel/offers/by-cursor"
)

// justJoinITCategories maps the category names accepted in config to the
// numeric codes the offers API expects.
var justJoinITCategories = map[string]int{
	"javascript":   1,
	"html":         2,
	"php":          3,
	"ruby":         4,
	"python":       5,
	"java":         6,
	"dotnet":       7,
	"scala":        8,
	"c":            9,
	"mobile":       10,
	"testing":      11,
	"devops":       12,
	"admin":        13,
	"ui_ux":        14,
	"pm":           15,
	"game":         16,
	"analytics":    17,
	"security":     18,
	"data":         19,
	"go":           20,
	"support":      21,
	"erp":          22,
	"architecture": 23,
	"other":        24,
	"ai_ml":        25,
}

// JustJoinIT walks the justjoin.it cursor-paginated offers API and emits one
// job-offer url per slug.
type JustJoinIT struct {
	categoryCodes []int
	client        *retryablehttp.Client
	apiURL        string
}

// NewJustJoinIT creates the adapter. Unknown category names are a
// configuration error and fail immediately.
func NewJustJoinIT(categories []string) (*JustJoinIT, error) {
	codes := make([]int, 0, len(categories))
	for _, c := range categories {
		code, ok := justJoinITCategories[c]
		if !ok {
			return nil, fmt.Errorf("unknown justjoin.it category: %s", c)
		}
		codes = append(codes, code)
	}

	return &JustJoinIT{
		categoryCodes: codes,
		client:        newHTTPClient(),
		apiURL:        justJoinITCursorAPI,
	}, nil
}

// Scrape pages through the offers feed until the API stops returning a next
// cursor.
func (s *JustJoinIT) Scrape(ctx context.Context, emit func(url string) error) error {
	cursor := ""

	for {
		page, err := s.fetchPage(ctx, cursor)
		if err != nil {
			return err
		}

		for _, slug := range gjson.Get(page, "data.#.slug").Array() {
			if err := emit(justJoinITOfferBase + slug.String()); err != nil {
				return err
			}
		}

		next := gjson.Get(page, "meta.next.cursor")
		if !next.Exists() || next.Type == gjson.Null {
			return nil
		}
		cursor = next.String()
	}
}

func (s *JustJoinIT) fetchPage(ctx context.Context, cursor string) (string, error) {
	query := url.Values{}
	for _, code := range s.categoryCodes {
		query.Add("categories[]", strconv.Itoa(code))
	}
	if cursor != "" {
		query.Set("from", cursor)
	}

	pageURL := s.apiURL
	if len(query) > 0 {
		pageURL += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building justjoin.it request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching justjoin.it offers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching justjoin.it offers: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading justjoin.it response: %w", err)
	}
	return string(body), nil
}
