package processor

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

const languageSampleRunes = 300

// Detector names the dominant language of a text
type Detector struct {
	supported map[string]bool
	fallback  string
}

// NewDetector creates a Detector that only reports the supported languages
func NewDetector(supported []string, fallback string) Detector {
	set := make(map[string]bool, len(supported))
	for _, s := range supported {
		set[s] = true
	}
	if fallback == "" {
		fallback = "English"
	}
	return Detector{supported: set, fallback: fallback}
}

// Detect looks at the first 300 runes and never fails: empty input, unknown or
// unsupported languages and detector panics all yield the fallback language.
func (d Detector) Detect(text string) (name string) {
	defer func() {
		if recover() != nil {
			name = d.fallback
		}
	}()

	sample := []rune(strings.TrimSpace(text))
	if len(sample) == 0 {
		return d.fallback
	}
	if len(sample) > languageSampleRunes {
		sample = sample[:languageSampleRunes]
	}

	info := whatlanggo.Detect(string(sample))
	name = info.Lang.String()
	if !d.supported[name] {
		return d.fallback
	}
	return name
}
