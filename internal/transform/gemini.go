package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"google.golang.org/genai"
)

type implGemini struct {
	apiKeys    []string
	model      string
	logger     logger.Logger
	mu         sync.Mutex
	currentKey int
	clients    map[int]*genai.Client
	generate   generateFunc
}

type generateFunc func(ctx context.Context, key int, model, system, user string, temperature float32) (string, error)

// NewGemini creates a Transformer that rotates through the supplied Gemini API keys
func NewGemini(cfg Config, log logger.Logger) Transformer {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	g := &implGemini{
		apiKeys: cfg.APIKeys,
		model:   model,
		logger:  log,
		clients: make(map[int]*genai.Client),
	}
	g.generate = g.generateContent
	return g
}

// Invoke sends one system/user exchange to Gemini.
// Rotates API keys on 429 / quota errors.
func (g *implGemini) Invoke(ctx context.Context, system, user string, temperature float32) (string, error) {
	attempts := len(g.apiKeys)
	if attempts == 0 {
		return "", &ServiceError{Provider: "gemini", Message: "no api keys configured"}
	}
	var lastErr error

	for range attempts {
		key := g.key()

		text, err := g.generate(ctx, key, g.model, system, user, temperature)
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isGeminiThrottle(err) {
			return "", &ServiceError{Provider: "gemini", Status: geminiStatus(err), Message: err.Error()}
		}

		g.logger.Warn(ctx, "Key %d rate limited, rotating...", key+1)
		g.rotateKey()
		lastErr = err
	}

	if isDailyQuota(lastErr) {
		return "", &QuotaError{Provider: "gemini", Message: geminiMessage(lastErr)}
	}
	return "", fmt.Errorf("all %d api keys throttled: %w: %s", attempts, ErrRateLimited, lastErr)
}

func (g *implGemini) generateContent(ctx context.Context, key int, model, system, user string, temperature float32) (string, error) {
	client, err := g.client(ctx, key)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(temperature),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(user), config)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	// An empty candidate list is reported as empty text; the pipeline decides what empty means.
	return "", nil
}

func (g *implGemini) client(ctx context.Context, key int) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKeys[key],
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func (g *implGemini) key() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey
}

func (g *implGemini) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isGeminiThrottle(err error) bool {
	if geminiStatus(err) == 429 {
		return true
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED")
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// isDailyQuota reports whether a throttle error names a per-day quota in its
// QuotaFailure details. Per-minute limits carry the same "exceeded your current
// quota" message, so anything without that evidence counts as a rate limit.
func isDailyQuota(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, detail := range apiErr.Details {
		if t, _ := detail["@type"].(string); !strings.HasSuffix(t, "google.rpc.QuotaFailure") {
			continue
		}
		violations, _ := detail["violations"].([]any)
		for _, v := range violations {
			violation, _ := v.(map[string]any)
			for _, key := range []string{"quotaId", "quotaMetric"} {
				if id, _ := violation[key].(string); strings.Contains(strings.ToLower(id), "perday") {
					return true
				}
			}
		}
	}
	return false
}

func geminiMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
