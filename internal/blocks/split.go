package blocks

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var reBlankLine = regexp.MustCompile(`\n[ \t]*\n`)

// SplitParagraphs splits markdown on blank lines into units of at most limit
// characters. An oversized paragraph is re-cut at sentence ends (a sentence
// keeps its period) and a sentence longer than limit is hard-cut, preferring
// whitespace. No content is dropped.
func SplitParagraphs(markdown string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxBlockChars
	}

	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")

	var out []string
	for _, paragraph := range reBlankLine.Split(markdown, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		if runeLen(paragraph) <= limit {
			out = append(out, paragraph)
			continue
		}
		out = append(out, splitSentences(paragraph, limit)...)
	}
	return out
}

func splitSentences(paragraph string, limit int) []string {
	var out []string
	candidate := ""

	flush := func() {
		if c := strings.TrimSpace(candidate); c != "" {
			out = append(out, c)
		}
		candidate = ""
	}

	for _, sentence := range strings.SplitAfter(paragraph, ".") {
		if strings.TrimSpace(sentence) == "" {
			candidate += sentence
			continue
		}

		for runeLen(strings.TrimSpace(sentence)) > limit {
			flush()
			var head string
			head, sentence = hardCut(strings.TrimSpace(sentence), limit)
			out = append(out, head)
		}

		if runeLen(strings.TrimSpace(candidate+sentence)) <= limit {
			candidate += sentence
			continue
		}
		flush()
		candidate = sentence
	}
	// The last candidate is always kept, however full it is.
	flush()

	return out
}

// hardCut splits s after at most limit runes, at the last whitespace when there is one
func hardCut(s string, limit int) (string, string) {
	runes := []rune(s)
	cut := limit
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut])), string(runes[cut:])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
