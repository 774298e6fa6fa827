package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

type implOpenAI struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewOpenAI creates a Transformer for an OpenAI-compatible chat/completions endpoint
func NewOpenAI(cfg Config, httpClient *http.Client, log logger.Logger) Transformer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &implOpenAI{
		apiKey:     cfg.APIKeys[0],
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
		logger:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *implOpenAI) Invoke(ctx context.Context, system, user string, temperature float32) (string, error) {
	start := time.Now()
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Provider: "openai", Message: err.Error()}
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn(ctx, "openai response body close error: %v", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Provider: "openai", Status: resp.StatusCode, Message: fmt.Sprintf("read body: %v", err)}
	}

	c.logger.Debug(ctx, "openai response status=%d bytes=%d elapsed=%s", resp.StatusCode, len(raw), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyOpenAI(resp.StatusCode, raw)
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", &ServiceError{Provider: "openai", Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(cc.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func classifyOpenAI(status int, raw []byte) error {
	var er errorResponse
	_ = json.Unmarshal(raw, &er)
	msg := er.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	if status == http.StatusTooManyRequests {
		if er.Error.Code == "insufficient_quota" || er.Error.Type == "insufficient_quota" {
			return &QuotaError{Provider: "openai", Message: msg}
		}
		return fmt.Errorf("openai: %w: %s", ErrRateLimited, msg)
	}
	return &ServiceError{Provider: "openai", Status: status, Message: msg}
}
