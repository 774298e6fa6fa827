package store

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/transcript-flow/internal/blocks"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
)

// Variant keys, in upload order
const (
	VariantOriginal              = "original_transcript"
	VariantStructured            = "structured_markdown"
	VariantReadable              = "readable_transcript"
	VariantTranslation           = "translation"
	VariantStructuredTranslation = "structured_translation"
)

// Link is one uploaded variant
type Link struct {
	Variant  string
	Document Document
}

// UploadResult lists the created documents and the variants cut off at the block cap
type UploadResult struct {
	Links     []Link
	Truncated []string
}

// Uploader stores every non-empty variant of a processed transcript
type Uploader struct {
	store  Store
	opts   blocks.Options
	logger logger.Logger
}

// NewUploader creates an Uploader over s
func NewUploader(s Store, opts blocks.Options, log logger.Logger) *Uploader {
	return &Uploader{store: s, opts: opts, logger: log}
}

// Upload creates one document per non-empty variant, titled "<title> — <variant>".
// On error the documents created so far are still returned.
func (u *Uploader) Upload(ctx context.Context, title, link string, res processor.Result) (UploadResult, error) {
	variants := []struct {
		key  string
		text string
	}{
		{VariantOriginal, res.OriginalText},
		{VariantStructured, res.StructuredMarkdown},
		{VariantReadable, res.ReadableText},
		{VariantTranslation, res.TranslatedText},
		{VariantStructuredTranslation, res.StructuredTranslationMarkdown},
	}

	var out UploadResult
	for _, v := range variants {
		if v.text == "" {
			continue
		}

		converted := blocks.Convert(v.text, u.opts)
		if converted.Truncated {
			u.logger.Warn(ctx, "Variant %s truncated: %d blocks dropped", v.key, converted.Dropped)
			out.Truncated = append(out.Truncated, v.key)
		}

		doc, err := u.store.CreateDocument(ctx, Properties{
			Title: title + " — " + v.key,
			Link:  link,
		}, converted.Blocks)
		if err != nil {
			return out, fmt.Errorf("upload %s: %w", v.key, err)
		}
		out.Links = append(out.Links, Link{Variant: v.key, Document: doc})
	}

	u.logger.Info(ctx, "Uploaded %d documents for %q", len(out.Links), title)
	return out, nil
}
