package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"team-insights-go/internal/config"
	"team-insights-go/internal/logger"
	"team-insights-go/internal/prompt"
)

// Sampling is fixed: low randomness, bounded output.
const (
	temperature = 0.2
	maxTokens   = 1200
)

// Client calls an OpenAI-compatible chat-completions endpoint. One attempt
// per call; retry and fallback policy belong to the orchestrator.
type Client struct {
	gatewayURL string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		timeout:    cfg.LLMTimeout,
		httpClient: &http.Client{}, // per-call context carries the deadline
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt under the fixed system role and wall-clock
// budget and returns the raw completion text. Expired budget cancels only
// this call.
func (c *Client) Complete(ctx context.Context, userPrompt string) (string, error) {
	log := logger.Component("llm").WithField("model", c.model)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.SystemRole},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("completion call exceeded budget")
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		log.WithError(err).Warn("completion transport failure")
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if typed := statusError(resp.StatusCode); typed != nil {
		log.WithField("http_status", resp.StatusCode).Warn("completion call rejected")
		return "", fmt.Errorf("%w: status=%d", typed, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: undecodable response body", ErrRequestFailed)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return parsed.Choices[0].Message.Content, nil
}

// statusError maps a non-2xx status to its typed condition.
func statusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrInvalidCredentials
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServiceUnavailable
	default:
		return ErrRequestFailed
	}
}
