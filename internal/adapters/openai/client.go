// Package openai implements the enrichment and interpretation ports
// against an OpenAI-compatible HTTP API. A client with no API key is
// valid: every call reports the tagged unavailable result and callers
// degrade to their deterministic strategies.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string        // schema-constrained generation model
	SearchModel string        // live-search (responses API) model
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // per-request ceiling
	MaxAttempts int           // transient-failure retries
}

type Client struct {
	cfg    Config
	client *http.Client
	log    *logrus.Logger
	rng    *rand.Rand
}

// NewClient builds a client with config defaults filled in. It never fails:
// a missing key only means every call is unavailable.
func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = "gpt-4o"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 800
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

type chatRequestBody struct {
	Model          string              `json:"model"`
	Messages       []map[string]string `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat map[string]string   `json:"response_format,omitempty"`
}

type chatResponseBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completeJSON runs a chat completion in JSON mode and returns the cleaned
// JSON payload bytes.
func (c *Client) completeJSON(ctx context.Context, prompt string, maxTokens int) ([]byte, error) {
	reqBody := chatRequestBody{
		Model:          c.cfg.Model,
		Messages:       []map[string]string{{"role": "user", "content": prompt}},
		MaxTokens:      maxTokens,
		Temperature:    c.cfg.Temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	body, err := c.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return nil, err
	}
	var apiResp chatResponseBody
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse chat response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}
	return stripFences(apiResp.Choices[0].Message.Content), nil
}

type responsesRequestBody struct {
	Model      string           `json:"model"`
	Input      string           `json:"input"`
	Tools      []map[string]any `json:"tools,omitempty"`
	ToolChoice string           `json:"tool_choice,omitempty"`
}

type responsesResponseBody struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type        string `json:"type"`
			Text        string `json:"text"`
			Annotations []struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"annotations"`
		} `json:"content"`
	} `json:"output"`
}

// searchJSON runs a live-search-augmented request through the responses
// API and returns the JSON payload bytes plus the citation URLs the search
// surfaced.
func (c *Client) searchJSON(ctx context.Context, prompt string) ([]byte, []string, error) {
	reqBody := responsesRequestBody{
		Model:      c.cfg.SearchModel,
		Input:      prompt,
		Tools:      []map[string]any{{"type": "web_search"}},
		ToolChoice: "auto",
	}
	body, err := c.post(ctx, "/responses", reqBody)
	if err != nil {
		return nil, nil, err
	}
	var apiResp responsesResponseBody
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, nil, fmt.Errorf("parse responses body: %w", err)
	}

	var text bytes.Buffer
	var sources []string
	seen := map[string]bool{}
	for _, item := range apiResp.Output {
		for _, content := range item.Content {
			text.WriteString(content.Text)
			for _, ann := range content.Annotations {
				if ann.URL != "" && !seen[ann.URL] {
					seen[ann.URL] = true
					sources = append(sources, ann.URL)
				}
			}
		}
	}
	if text.Len() == 0 {
		return nil, sources, fmt.Errorf("empty responses output")
	}
	return stripFences(text.String()), sources, nil
}

// post sends one JSON request with bounded retries. Network errors, rate
// limits and 5xx responses back off exponentially with jitter; other
// status codes fail immediately.
func (c *Client) post(ctx context.Context, path string, reqBody any) ([]byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		body, retryable, err := c.doOnce(ctx, path, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.log.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt,
			"error":   err,
		}).Warn("provider request failed, retrying")
	}
	return nil, fmt.Errorf("max attempts (%d) exceeded: %w", c.cfg.MaxAttempts, lastErr)
}

func (c *Client) doOnce(ctx context.Context, path string, payload []byte) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("provider error (status %d): %s", resp.StatusCode, truncateBody(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("provider error (status %d): %s", resp.StatusCode, truncateBody(body))
	}
	return body, false, nil
}

func (c *Client) backoff(n int) time.Duration {
	const base = 500 * time.Millisecond
	const ceiling = 8 * time.Second
	delay := float64(base) * math.Pow(2, float64(n-1))
	if delay > float64(ceiling) {
		delay = float64(ceiling)
	}
	delay += c.rng.Float64() * 0.1 * delay
	return time.Duration(delay)
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
