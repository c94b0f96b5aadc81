package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/ai"
)

const (
	defaultBaseURL = "https://api.openai.com"
	groqBaseURL    = "https://api.groq.com/openai"
)

type Client struct {
	APIKey  string
	BaseURL string
	Backoff ai.Backoff
	name    string
	http    *http.Client
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Backoff: ai.DefaultBackoff,
		name:    "openai",
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// NewGroq returns a client for Groq's OpenAI-compatible endpoint.
func NewGroq(apiKey string) *Client {
	c := New(apiKey, groqBaseURL)
	c.name = "groq"
	return c
}

func (c *Client) Complete(ctx context.Context, model string, prompt string, temperature float64) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%s: %w", c.name, ai.ErrMissingKey)
	}
	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
		"max_tokens":  200,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return c.Backoff.Do(ctx, func(ctx context.Context) (string, error) {
		return c.chatComplete(ctx, b)
	})
}

func (c *Client) chatComplete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", c.name, ai.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", ai.StatusError(c.name, resp.StatusCode, msg)
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices: %w", c.name, ai.ErrUnavailable)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
