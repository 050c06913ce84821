package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	thinkBlockRe = regexp.MustCompile(`(?s)^<think>.*?</think>`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// normalizeContent reduces a posting page to plain text before it is sent to
// the model: markup, scripts and styles are stripped and whitespace is
// squeezed. Raw feed content without markup passes through unchanged.
func normalizeContent(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parsing posting content: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	text := strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "\u00a0", " ")

	return strings.TrimSpace(text) + "\n", nil
}

// normalizeReply strips the reasoning block some local models prepend and
// any markdown code fence around the JSON payload.
func normalizeReply(reply string) string {
	result := strings.TrimSpace(reply)
	result = thinkBlockRe.ReplaceAllString(result, "")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "```json\n")
	result = strings.TrimPrefix(result, "```\n")
	result = strings.TrimSuffix(result, "\n```")
	return result
}
