package processor

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/transcript-flow/internal/prompts"
)

// Process orchestrates the transcript pipeline:
// clean → chunk → tail-carry readability → language gate → [translation] → structuring
func (p *implProcessor) Process(ctx context.Context, text string) (Result, error) {
	startTime := time.Now()

	clearText := Clean(text)
	chunks, err := Split(clearText, p.opts.ChunkSize)
	if err != nil {
		return Result{}, fmt.Errorf("split transcript: %w", err)
	}
	if len(chunks) == 0 {
		return Result{}, fmt.Errorf("transcript is empty: %w", ErrEmptyResult)
	}

	p.logger.Info(ctx, "Starting transcript processing: %d chars, %d chunks (chunk size %d)",
		utf8.RuneCountInString(text), len(chunks), p.opts.ChunkSize)

	// Step 1: Readability, one call per chunk with the previous tail carried over
	readable, err := p.readable(ctx, chunks)
	if err != nil {
		return Result{}, err
	}

	// Step 2: Language gate
	detected := p.opts.Detector.Detect(readable)
	p.logger.Info(ctx, "Readability done, detected language: %s", detected)

	// Step 3: Translation, when the text is not in the target language
	var translated string
	if detected != p.opts.TargetLanguage {
		p.logger.Info(ctx, "Translating %s -> %s", detected, p.opts.TargetLanguage)
		translated, err = p.call(ctx, "translation", p.prompts.Translation, map[string]string{
			"language": detected,
			"target":   p.opts.TargetLanguage,
			"text":     readable,
		})
		if err != nil {
			return Result{}, err
		}
	}

	// Step 4: Structuring, whole document in a single call
	source := readable
	if translated != "" {
		source = translated
	}
	structured, err := p.call(ctx, "structure", p.prompts.Structure, map[string]string{"text": source})
	if err != nil {
		return Result{}, err
	}

	var structuredSource string
	if translated != "" && p.opts.StructureSource {
		structuredSource, err = p.call(ctx, "structure source", p.prompts.Structure, map[string]string{"text": readable})
		if err != nil {
			return Result{}, err
		}
	}

	p.logger.Info(ctx, "Transcript processed in %s", time.Since(startTime))

	return Result{
		OriginalText:                  text,
		ReadableText:                  readable,
		TranslatedText:                translated,
		StructuredMarkdown:            structured,
		StructuredTranslationMarkdown: structuredSource,
		DetectedLanguage:              detected,
	}, nil
}

// readable runs the tail-carry transform over every chunk in order
func (p *implProcessor) readable(ctx context.Context, chunks []string) (string, error) {
	parts := make([]string, 0, len(chunks)+1)
	tail := ""
	prev := ""

	for i, chunk := range chunks {
		input := carryTail(tail, prev, chunk)
		if strings.TrimSpace(input) == "" {
			prev = chunk
			continue
		}
		p.logger.Debug(ctx, "Processing chunk %d of %d: %d chars (tail %d)", i+1, len(chunks), utf8.RuneCountInString(chunk), utf8.RuneCountInString(tail))

		res, err := p.correct(ctx, input)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, res.CompleteText)
		tail = res.Tail
		prev = chunk
	}
	if tail != "" {
		parts = append(parts, tail)
	}

	readable := joinParts(parts)
	if readable == "" {
		return "", fmt.Errorf("readable transcript is empty: %w", ErrEmptyResult)
	}
	return readable, nil
}

// correct sends one chunk through the readability prompt and splits off the unfinished sentence
func (p *implProcessor) correct(ctx context.Context, input string) (TailResult, error) {
	out, err := p.call(ctx, "readability", p.prompts.Readability, map[string]string{
		"language": p.opts.Detector.Detect(input),
		"text":     input,
	})
	if err != nil {
		return TailResult{}, err
	}
	return FindTail(out), nil
}

func (p *implProcessor) call(ctx context.Context, stage string, pair prompts.Pair, values map[string]string) (string, error) {
	user := prompts.Render(pair.User, values)
	out, err := p.transformer.Invoke(ctx, pair.System, user, p.opts.Temperature)
	if err != nil {
		return "", fmt.Errorf("%s: %w", stage, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%s returned nothing: %w", stage, ErrEmptyResult)
	}
	return out, nil
}

func joinParts(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}
