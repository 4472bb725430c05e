// Package llm is a small client for OpenAI-compatible chat completion servers
// (llama.cpp, vLLM, OpenAI) used to draft advising replies.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"email-advisor/internal/contextutil"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 60 * time.Second

// ErrNoChoices is returned when the server answers without any completion.
var ErrNoChoices = errors.New("no choices returned")

// Client talks to the /v1/chat/completions endpoint.
type Client struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	client       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithSystemPrompt prepends a system message to every Chat call.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) { c.SystemPrompt = prompt }
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat sends message as a single user turn and asks for a JSON object reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var messages []Message
	if c.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: c.SystemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: message})
	return c.ChatWithMessages(ctx, messages, ChatParams{JSONMode: true})
}

// ChatWithMessages sends a full conversation and returns the first choice's content.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	model := params.Model
	if model == "" {
		model = c.Model
	}
	payload := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}
	if params.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	logger.DebugContext(ctx, "chat completion received",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"finish_reason", chatResp.Choices[0].FinishReason,
	)
	return chatResp.Choices[0].Message.Content, nil
}
