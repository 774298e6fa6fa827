package processor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var terminators = []string{". ", "? ", "! "}

// TailResult splits a transform output at its last sentence terminator
type TailResult struct {
	CompleteText string
	Tail         string
}

// FindTail returns everything up to the last terminator as CompleteText and the
// unterminated remainder as Tail. Without a terminator the whole text is complete.
func FindTail(text string) TailResult {
	if text == "" {
		return TailResult{}
	}

	// A terminator touching the last character does not count.
	search := text[:len(text)-1]
	sentenceBreak := -1
	for _, t := range terminators {
		if i := strings.LastIndex(search, t); i > sentenceBreak {
			sentenceBreak = i
		}
	}
	if sentenceBreak == -1 {
		return TailResult{CompleteText: strings.TrimSpace(text)}
	}

	return TailResult{
		CompleteText: strings.TrimSpace(text[:sentenceBreak+1]),
		Tail:         strings.TrimSpace(text[sentenceBreak+2:]),
	}
}

// carryTail prepends the previous tail to chunk. The tail lost its trailing
// whitespace in the transform, so a word break at the chunk boundary is restored.
func carryTail(tail, prevChunk, chunk string) string {
	if tail == "" {
		return chunk
	}
	last, _ := utf8.DecodeLastRuneInString(prevChunk)
	first, _ := utf8.DecodeRuneInString(chunk)
	if unicode.IsSpace(last) && !unicode.IsSpace(first) {
		return tail + " " + chunk
	}
	return tail + chunk
}
