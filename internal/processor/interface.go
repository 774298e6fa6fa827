package processor

import "context"

// Processor turns one raw transcript into its derived documents
type Processor interface {
	Process(ctx context.Context, text string) (Result, error)
}

// Result is produced once per job and never modified afterwards
type Result struct {
	OriginalText                  string
	ReadableText                  string
	TranslatedText                string
	StructuredMarkdown            string
	StructuredTranslationMarkdown string
	DetectedLanguage              string
}
