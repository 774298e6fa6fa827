package processor

import (
	"regexp"
	"strings"
)

var (
	reTimecode  = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	reLinebreak = regexp.MustCompile(`\r?\n|\r`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// Clean strips m:ss timecodes and folds the text onto a single line
func Clean(text string) string {
	text = reTimecode.ReplaceAllString(text, "")
	text = reLinebreak.ReplaceAllString(text, " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
}

// Split cuts text into consecutive chunks of at most maxChunkLen runes.
// Offsets are purely positional; sentences may be split.
func Split(text string, maxChunkLen int) ([]string, error) {
	if maxChunkLen <= 0 {
		return nil, ErrInvalidChunkSize
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/maxChunkLen+1)
	for i := 0; i < len(runes); i += maxChunkLen {
		end := i + maxChunkLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks, nil
}
