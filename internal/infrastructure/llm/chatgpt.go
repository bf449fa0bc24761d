package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/p055e55eD/MediaSanitizer/internal/config"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

// ChatGPTClient implements ports.ChatClient backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint    string
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

var _ ports.ChatClient = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts the prompt as a system message and returns the first
// choice's content, trimmed. Transport and API errors surface to the caller;
// interpreting the content is the analyzer's job.
func (c *ChatGPTClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("chatgpt client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": prompt},
		},
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chatgpt error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
