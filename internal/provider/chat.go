package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// chatRequest is the OpenAI-style chat completions request body spoken by
// both Groq and OpenRouter.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// chatClient implements the shared request cycle for chat-completions
// providers. Provider-specific identity (name, endpoint, model, extra
// headers) is injected by GroqClient and OpenRouterClient.
type chatClient struct {
	name       string
	endpoint   string
	apiKey     string
	model      string
	headers    map[string]string
	httpClient *http.Client
}

func newChatClient(name, endpoint, apiKey, model string, timeout time.Duration, headers map[string]string) *chatClient {
	return &chatClient{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		headers:  headers,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *chatClient) Name() string { return c.name }

// Complete sends one chat completion request. The per-attempt deadline comes
// from ctx; retry and fallback live in the Gateway, not here.
func (c *chatClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("API key not configured")}
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", &Failure{Kind: FailureTimeout, Err: ctx.Err()}
		}
		return "", &Failure{Kind: FailureTransport, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Failure{Kind: FailureTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusFailure(resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("parse response: %w", err)}
	}
	if parsed.Error != nil {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("API error: %s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("no completion returned")}
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("empty completion")}
	}
	return text, nil
}
