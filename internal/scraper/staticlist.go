package scraper

import "context"

// StaticList emits a fixed url list from configuration. Useful for one-off
// reviews of hand-picked postings and as the simplest possible source.
type StaticList struct {
	list []string
}

// NewStaticList creates a static source over urls.
func NewStaticList(urls []string) *StaticList {
	return &StaticList{list: urls}
}

// Scrape emits every configured url.
func (s *StaticList) Scrape(ctx context.Context, emit func(url string) error) error {
	for _, url := range s.list {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(url); err != nil {
			return err
		}
	}
	return nil
}
