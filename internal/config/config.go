package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Transform TransformConfig `yaml:"transform"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Queue     QueueConfig     `yaml:"queue"`
	Store     StoreConfig     `yaml:"store"`
	Intake    IntakeConfig    `yaml:"intake"`
	Source    SourceConfig    `yaml:"source"`
	Paths     PathsConfig     `yaml:"paths"`
	Logging   LoggingConfig   `yaml:"logging"`

	Secrets SecretsConfig `yaml:"-"`
}

type TransformConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	APIKeys  []string      `yaml:"api_keys"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PipelineConfig struct {
	PromptsPath      string   `yaml:"prompts_path"`
	ChunkSize        int      `yaml:"chunk_size"`
	Temperature      float32  `yaml:"temperature"`
	TargetLanguage   string   `yaml:"target_language"`
	FallbackLanguage string   `yaml:"fallback_language"`
	Languages        []string `yaml:"languages"`
	StructureSource  bool     `yaml:"structure_source"`
}

type QueueConfig struct {
	Capacity   int           `yaml:"capacity"`
	JobTimeout time.Duration `yaml:"job_timeout"`
}

type StoreConfig struct {
	Kind          string       `yaml:"kind"`
	MaxBlockChars int          `yaml:"max_block_chars"`
	MaxBlocks     int          `yaml:"max_blocks"`
	Notion        NotionConfig `yaml:"notion"`
	Docx          DocxConfig   `yaml:"docx"`
}

type NotionConfig struct {
	BaseURL       string `yaml:"base_url"`
	DatabaseID    string `yaml:"database_id"`
	TitleProperty string `yaml:"title_property"`
	LinkProperty  string `yaml:"link_property"`
	APIKey        string `yaml:"api_key"`
}

type DocxConfig struct {
	Dir string `yaml:"dir"`
}

type IntakeConfig struct {
	WatchDir     string        `yaml:"watch_dir"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	HTTPAddr     string        `yaml:"http_addr"`
	MaxTextBytes int64         `yaml:"max_text_bytes"`
	MaxTextChars int           `yaml:"max_text_chars"`
}

type SourceConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type PathsConfig struct {
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SecretsConfig is read from the environment only and never from the YAML file
type SecretsConfig struct {
	TransformAPIKeys []string `env:"TRANSFORM_API_KEYS" envSeparator:","`
	NotionAPIKey     string   `env:"NOTION_API_KEY"`
	LogLevel         string   `env:"LOG_LEVEL"`
}

// LoadSecrets parses SecretsConfig from the environment and applies it over the file values
func (c *Config) LoadSecrets() error {
	if err := env.Parse(&c.Secrets); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	keys := make([]string, 0, len(c.Secrets.TransformAPIKeys))
	for _, k := range c.Secrets.TransformAPIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		c.Transform.APIKeys = keys
	}
	if c.Secrets.NotionAPIKey != "" {
		c.Store.Notion.APIKey = c.Secrets.NotionAPIKey
	}
	if c.Secrets.LogLevel != "" {
		c.Logging.Level = c.Secrets.LogLevel
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Transform.Provider {
	case "":
		c.Transform.Provider = "gemini"
	case "gemini", "openai":
	default:
		return fmt.Errorf("transform.provider must be gemini or openai, got %q", c.Transform.Provider)
	}
	if len(c.Transform.APIKeys) == 0 {
		return fmt.Errorf("transform.api_keys is required (or TRANSFORM_API_KEYS)")
	}
	if c.Pipeline.ChunkSize < 0 {
		return fmt.Errorf("pipeline.chunk_size must be > 0")
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue.capacity must be > 0")
	}

	switch c.Store.Kind {
	case "", "none":
		c.Store.Kind = "none"
	case "notion":
		if c.Store.Notion.APIKey == "" {
			return fmt.Errorf("store.notion.api_key is required (or NOTION_API_KEY)")
		}
		if c.Store.Notion.DatabaseID == "" {
			return fmt.Errorf("store.notion.database_id is required")
		}
	case "docx":
	default:
		return fmt.Errorf("store.kind must be none, notion or docx, got %q", c.Store.Kind)
	}

	if c.Transform.Model == "" {
		if c.Transform.Provider == "openai" {
			c.Transform.Model = "gpt-4o-mini"
		} else {
			c.Transform.Model = "gemini-2.5-flash"
		}
	}
	if c.Transform.Timeout == 0 {
		c.Transform.Timeout = 2 * time.Minute
	}
	if c.Pipeline.PromptsPath == "" {
		c.Pipeline.PromptsPath = "prompts/transcript_prompts.yaml"
	}
	if c.Pipeline.ChunkSize == 0 {
		c.Pipeline.ChunkSize = 30000
	}
	if c.Pipeline.Temperature == 0 {
		c.Pipeline.Temperature = 0.1
	}
	if c.Pipeline.TargetLanguage == "" {
		c.Pipeline.TargetLanguage = "Russian"
	}
	if c.Pipeline.FallbackLanguage == "" {
		c.Pipeline.FallbackLanguage = "English"
	}
	if len(c.Pipeline.Languages) == 0 {
		c.Pipeline.Languages = []string{"English", "German", "Russian"}
	}
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = 20
	}
	if c.Store.MaxBlockChars == 0 {
		c.Store.MaxBlockChars = 2000
	}
	if c.Store.MaxBlocks == 0 {
		c.Store.MaxBlocks = 99
	}
	if c.Store.Notion.TitleProperty == "" {
		c.Store.Notion.TitleProperty = "title"
	}
	if c.Store.Notion.LinkProperty == "" {
		c.Store.Notion.LinkProperty = "link"
	}
	if c.Intake.SettleDelay == 0 {
		c.Intake.SettleDelay = 500 * time.Millisecond
	}
	if c.Intake.MaxTextBytes == 0 {
		c.Intake.MaxTextBytes = 1_000_000
	}
	if c.Intake.MaxTextChars == 0 {
		c.Intake.MaxTextChars = 1_000_000
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Store.Docx.Dir == "" {
		c.Store.Docx.Dir = c.Paths.Output + "/documents"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
