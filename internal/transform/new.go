package transform

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

// Config selects and parameterises a backend
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKeys  []string
	Timeout  time.Duration
}

// New creates the Transformer for cfg.Provider
func New(cfg Config, log logger.Logger) (Transformer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("transform: at least one api key is required")
	}

	switch cfg.Provider {
	case "", "gemini":
		return NewGemini(cfg, log), nil
	case "openai":
		return NewOpenAI(cfg, &http.Client{Timeout: cfg.Timeout}, log), nil
	default:
		return nil, fmt.Errorf("transform: unknown provider %q", cfg.Provider)
	}
}
