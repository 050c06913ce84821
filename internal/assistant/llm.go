package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// LLMClient calls an OpenAI-compatible /v1/chat/completions endpoint, such
// as a local LM Studio instance.
type LLMClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewLLMClient creates a client for the given endpoint and model.
func NewLLMClient(baseURL, model string, httpClient *http.Client) *LLMClient {
	return &LLMClient{
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// chatRequest mirrors the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	N           int           `json:"n"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the relevant fields of the response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the message with the given instructions and returns the
// model's raw reply. Temperature is pinned to 0 so repeated assessments of
// the same posting stay as close as the model allows.
func (c *LLMClient) Complete(ctx context.Context, instructions, message string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		N:     1,
		Messages: []chatMessage{
			{Role: "system", Content: instructions},
			{Role: "user", Content: message},
		},
		Temperature: 0,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling llm: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading llm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm returned status %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding llm response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
