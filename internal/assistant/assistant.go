// Package assistant implements the assessor that scores postings with an
// LLM against the user's professional profile.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mwrona/jobscout/internal/model"
	"github.com/mwrona/jobscout/internal/webcache"
)

// Ensure Assistant implements model.Assessor.
var _ model.Assessor = (*Assistant)(nil)

// Assistant fetches a posting's content through the webcache, reduces it to
// plain text, and asks the LLM for a relevance verdict.
//
// Re-assessing the same url is stable at the fetch level (the webcache
// returns the same content), but the model is not guaranteed to repeat its
// verdict even at temperature 0.
type Assistant struct {
	cache   *webcache.Cache
	llm     *LLMClient
	profile string
	logger  *slog.Logger
}

// New creates an assistant for the given profile.
func New(cache *webcache.Cache, llm *LLMClient, profile string, logger *slog.Logger) *Assistant {
	return &Assistant{
		cache:   cache,
		llm:     llm,
		profile: profile,
		logger:  logger,
	}
}

// Assess scores the posting at url. Unreachable content is a domain outcome,
// not a fault: it yields the score=-1 sentinel review and a nil error.
func (a *Assistant) Assess(ctx context.Context, url string) (model.Review, error) {
	content, err := a.cache.Fetch(url)
	if errors.Is(err, webcache.ErrFetch) {
		a.logger.Warn("posting content not accessible", "url", url, "error", err)
		return model.Review{
			Score: -1,
			Notes: "Job posting is not accessible",
		}, nil
	}
	if err != nil {
		return model.Review{}, err
	}

	text, err := normalizeContent(content)
	if err != nil {
		return model.Review{}, err
	}

	reply, err := a.llm.Complete(ctx, a.instructions(), text)
	if err != nil {
		return model.Review{}, err
	}

	return parseReview(normalizeReply(reply))
}

// rawReview is the JSON shape the instructions ask the model to return.
type rawReview struct {
	Company  string  `json:"company"`
	Position string  `json:"position"`
	Score    float64 `json:"score"`
	Notes    string  `json:"notes"`
}

func parseReview(reply string) (model.Review, error) {
	var raw rawReview
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return model.Review{}, fmt.Errorf("parsing llm verdict: %w", err)
	}
	return model.Review{
		Company:  raw.Company,
		Position: raw.Position,
		Score:    raw.Score,
		Notes:    raw.Notes,
	}, nil
}

func (a *Assistant) instructions() string {
	return fmt.Sprintf(`You are my personal assistant for reviewing job postings and evaluating their relevance to my profile.

For each provided job posting (which may come as raw, unprocessed data from job boards and could be incomplete or messy), do the following:

1. Analyze the content and assess how well it matches my professional background, preferences, and requirements.
2. Provide a relevance score from **0.0 (not relevant at all or missing data)** to **5.0 (perfect match)**.
3. Give a clear, concise explanation for the assigned score.

If the posting is broken, incomplete, or lacks enough data to evaluate, assign a **score of 0.0** and explain what is missing.

---

## My Professional Profile

%s

---

## Output Format

Return the analysis as a JSON object in the following structure:

{
  "company": "<detected company name>",
  "position": "<detected job title>",
  "score": <score from 0.0 to 5.0>,
  "notes": "<brief explanation of the score>"
}`, a.profile)
}
