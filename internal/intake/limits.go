package intake

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrTooLarge rejects a submission above the configured size limits
	ErrTooLarge = errors.New("submission is too large")
	// ErrNotText rejects content that is not valid UTF-8 text
	ErrNotText = errors.New("submission is not utf-8 text")
	// ErrUnsupportedFile rejects files other than .txt and .md
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Limits cap the size of a text submission; zero disables a limit
type Limits struct {
	MaxTextBytes int64
	MaxTextChars int
}

// CheckText validates text against the limits
func (l Limits) CheckText(text string) error {
	if l.MaxTextBytes > 0 && int64(len(text)) > l.MaxTextBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(text), l.MaxTextBytes)
	}
	if !utf8.ValidString(text) {
		return ErrNotText
	}
	if n := utf8.RuneCountInString(text); l.MaxTextChars > 0 && n > l.MaxTextChars {
		return fmt.Errorf("%w: %d characters, limit %d", ErrTooLarge, n, l.MaxTextChars)
	}
	return nil
}
