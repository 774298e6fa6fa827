package prompts

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section names in the prompt file
const (
	SectionReadability = "readability"
	SectionTranslation = "translation"
	SectionStructure   = "structure_markdown"
)

// ErrConfig marks every prompt loading failure; such failures are fatal at startup
var ErrConfig = errors.New("prompt configuration error")

// ConfigError names the missing or invalid prompt key
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("prompt file %s: %s", e.Reason, e.Key)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Pair is a system/user template pair for one transform stage
type Pair struct {
	System string
	User   string
}

// Set holds the templates of every stage
type Set struct {
	Readability Pair
	Translation Pair
	Structure   Pair
}

type file struct {
	Prompts map[string]section `yaml:"prompts"`
}

type section struct {
	Current  string                       `yaml:"current"`
	Versions map[string]map[string]string `yaml:"versions"`
}

// Load reads and validates the prompt file at path
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w: %w", ErrConfig, err)
	}
	return Parse(data)
}

// Parse validates prompt YAML; every stage needs a non-blank system and user template
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prompts: %w: %w", ErrConfig, err)
	}
	if f.Prompts == nil {
		return nil, &ConfigError{Key: "prompts", Reason: "missing top-level mapping"}
	}

	get := func(name, key string) (string, error) {
		sec, ok := f.Prompts[name]
		if !ok {
			return "", &ConfigError{Key: "prompts." + name, Reason: "missing"}
		}
		current := sec.Current
		if current == "" {
			current = "v1"
		}
		version, ok := sec.Versions[current]
		if !ok {
			return "", &ConfigError{Key: fmt.Sprintf("prompts.%s.versions.%s", name, current), Reason: "missing"}
		}
		value := version[key]
		if strings.TrimSpace(value) == "" {
			return "", &ConfigError{Key: fmt.Sprintf("prompts.%s.versions.%s.%s", name, current, key), Reason: "missing"}
		}
		return value, nil
	}

	var set Set
	targets := []struct {
		name string
		pair *Pair
	}{
		{SectionReadability, &set.Readability},
		{SectionTranslation, &set.Translation},
		{SectionStructure, &set.Structure},
	}
	for _, t := range targets {
		system, err := get(t.name, "system")
		if err != nil {
			return nil, err
		}
		user, err := get(t.name, "user")
		if err != nil {
			return nil, err
		}
		*t.pair = Pair{System: system, User: user}
	}

	return &set, nil
}

// Render replaces every {{key}} in template with its value in a single pass.
// Substituted values are never scanned again, so placeholders inside them stay literal.
func Render(template string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{"+key+"}}", values[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
