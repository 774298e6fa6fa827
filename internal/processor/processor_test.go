package processor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/prompts"
	"github.com/nguyentantai21042004/transcript-flow/internal/transform"
)

type call struct {
	system, user string
	temperature  float32
}

type fakeTransformer struct {
	mu    sync.Mutex
	calls []call
	reply func(system, user string) (string, error)
}

func (f *fakeTransformer) Invoke(ctx context.Context, system, user string, temperature float32) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{system, user, temperature})
	f.mu.Unlock()
	return f.reply(system, user)
}

func (f *fakeTransformer) stageCalls(system string) []call {
	var out []call
	for _, c := range f.calls {
		if c.system == system {
			out = append(out, c)
		}
	}
	return out
}

// echo is content preserving: readability returns its input unchanged
func echo(system, user string) (string, error) {
	switch system {
	case "translation":
		return "TRANSLATED " + user, nil
	case "structure":
		return "## Structured\n\n" + user, nil
	default:
		return user, nil
	}
}

func testPrompts() *prompts.Set {
	return &prompts.Set{
		Readability: prompts.Pair{System: "readability", User: "{{text}}"},
		Translation: prompts.Pair{System: "translation", User: "{{text}}"},
		Structure:   prompts.Pair{System: "structure", User: "{{text}}"},
	}
}

func newTestProcessor(tr transform.Transformer, chunkSize int, target string) *implProcessor {
	return New(tr, testPrompts(), Options{
		ChunkSize:      chunkSize,
		TargetLanguage: target,
		Detector:       NewDetector(nil, "English"),
	}, logger.Nop()).(*implProcessor)
}

func TestProcessCarriesTailAcrossChunks(t *testing.T) {
	tr := &fakeTransformer{reply: echo}
	p := newTestProcessor(tr, 13, "English")

	res, err := p.Process(context.Background(), "Hi. Hello world. How are you")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	inputs := tr.stageCalls("readability")
	want := []string{"Hi. Hello wor", "Hello world. How are y", "How are you"}
	if len(inputs) != len(want) {
		t.Fatalf("readability calls = %d, want %d", len(inputs), len(want))
	}
	for i := range want {
		if inputs[i].user != want[i] {
			t.Errorf("chunk %d input = %q, want %q", i+1, inputs[i].user, want[i])
		}
		if inputs[i].temperature != 0.1 {
			t.Errorf("chunk %d temperature = %v, want 0.1", i+1, inputs[i].temperature)
		}
	}

	if res.ReadableText != "Hi.\n\nHello world.\n\nHow are you" {
		t.Errorf("ReadableText = %q", res.ReadableText)
	}
	if res.TranslatedText != "" {
		t.Errorf("TranslatedText = %q, want none for target language", res.TranslatedText)
	}
	if res.StructuredMarkdown != "## Structured\n\n"+res.ReadableText {
		t.Errorf("StructuredMarkdown = %q", res.StructuredMarkdown)
	}
	if res.DetectedLanguage != "English" {
		t.Errorf("DetectedLanguage = %v, want English", res.DetectedLanguage)
	}
	if res.OriginalText != "Hi. Hello world. How are you" {
		t.Errorf("OriginalText = %q", res.OriginalText)
	}
}

func TestProcessScriptedOutputsCompleteBrokenWord(t *testing.T) {
	outputs := []string{"Well. Hello wor", "Hello world. How are you", "How are you"}
	var n int
	tr := &fakeTransformer{reply: func(system, user string) (string, error) {
		if system != "readability" {
			return echo(system, user)
		}
		out := outputs[n]
		n++
		return out, nil
	}}
	p := newTestProcessor(tr, 10, "English")

	res, err := p.Process(context.Background(), "well hello world how are you")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	second := tr.stageCalls("readability")[1].user
	if !strings.HasPrefix(second, "Hello wor") {
		t.Errorf("second input = %q, want the carried tail prepended", second)
	}
	if strings.Contains(res.ReadableText, "wor\n") {
		t.Errorf("ReadableText = %q splits a word across segments", res.ReadableText)
	}
	if res.ReadableText != "Well.\n\nHello world.\n\nHow are you" {
		t.Errorf("ReadableText = %q", res.ReadableText)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestTailRoundTrip(t *testing.T) {
	text := "This is the first one. Is this the second? Yes it is! Then comes a long run on part without an end"

	whole, err := newTestProcessor(&fakeTransformer{reply: echo}, len(text)+1, "English").
		readable(context.Background(), []string{text})
	if err != nil {
		t.Fatal(err)
	}

	for size := 1; size <= len(text); size++ {
		chunks, _ := Split(text, size)
		got, err := newTestProcessor(&fakeTransformer{reply: echo}, size, "English").
			readable(context.Background(), chunks)
		if err != nil {
			t.Fatalf("size %d: readable() error = %v", size, err)
		}
		if stripSpace(got) != stripSpace(whole) {
			t.Fatalf("size %d: content = %q, want %q", size, got, whole)
		}
	}
}

func TestNoSentenceSplitAcrossSegments(t *testing.T) {
	text := "Short one. Another short one? A third one! Number four here. And five. Six is last"

	for size := 25; size <= 60; size++ {
		chunks, _ := Split(text, size)
		got, err := newTestProcessor(&fakeTransformer{reply: echo}, size, "English").
			readable(context.Background(), chunks)
		if err != nil {
			t.Fatalf("size %d: readable() error = %v", size, err)
		}

		segments := strings.Split(got, "\n\n")
		for i, seg := range segments[:len(segments)-1] {
			if !strings.ContainsAny(seg[len(seg)-1:], ".?!") {
				t.Errorf("size %d: segment %d %q ends mid-sentence", size, i, seg)
			}
		}
	}
}

func TestProcessTranslatesNonTargetLanguage(t *testing.T) {
	tr := &fakeTransformer{reply: echo}
	p := New(tr, testPrompts(), Options{
		ChunkSize:       100,
		TargetLanguage:  "Russian",
		StructureSource: true,
		Detector:        NewDetector(nil, "English"),
	}, logger.Nop())

	res, err := p.Process(context.Background(), "Some text here. And more")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if res.TranslatedText != "TRANSLATED "+res.ReadableText {
		t.Errorf("TranslatedText = %q", res.TranslatedText)
	}
	if res.StructuredMarkdown != "## Structured\n\n"+res.TranslatedText {
		t.Errorf("StructuredMarkdown = %q, want structure of the translation", res.StructuredMarkdown)
	}
	if res.StructuredTranslationMarkdown != "## Structured\n\n"+res.ReadableText {
		t.Errorf("StructuredTranslationMarkdown = %q, want structure of the source text", res.StructuredTranslationMarkdown)
	}
	if got := len(tr.stageCalls("translation")); got != 1 {
		t.Errorf("translation calls = %d, want 1 whole-document call", got)
	}
	if got := len(tr.stageCalls("structure")); got != 2 {
		t.Errorf("structure calls = %d, want 2", got)
	}
}

func TestProcessEmptyResults(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		empty string
	}{
		{"empty input", " 0:01 \n ", ""},
		{"empty readability", "Some text. More", "readability"},
		{"empty translation", "Some text. More", "translation"},
		{"empty structure", "Some text. More", "structure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransformer{reply: func(system, user string) (string, error) {
				if system == tt.empty {
					return "  ", nil
				}
				return echo(system, user)
			}}
			p := newTestProcessor(tr, 5, "Russian")

			_, err := p.Process(context.Background(), tt.text)
			if !errors.Is(err, ErrEmptyResult) {
				t.Errorf("Process() error = %v, want ErrEmptyResult", err)
			}
		})
	}
}

func TestProcessStopsOnTransformError(t *testing.T) {
	calls := 0
	tr := &fakeTransformer{reply: func(system, user string) (string, error) {
		calls++
		if calls == 2 {
			return "", transform.ErrRateLimited
		}
		return echo(system, user)
	}}
	p := newTestProcessor(tr, 4, "English")

	_, err := p.Process(context.Background(), "one two three four five")
	if !errors.Is(err, transform.ErrRateLimited) {
		t.Fatalf("Process() error = %v, want ErrRateLimited", err)
	}
	if !strings.Contains(err.Error(), "chunk 2/") {
		t.Errorf("error = %q, want chunk position", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (no chunk skipped or retried)", calls)
	}
}

func TestProcessLogsCharacterCount(t *testing.T) {
	var buf bytes.Buffer
	p := New(&fakeTransformer{reply: echo}, testPrompts(), Options{
		ChunkSize:      100,
		TargetLanguage: "English",
		Detector:       NewDetector(nil, "English"),
	}, logger.NewWithFormat("info", "text", &buf))

	// 11 characters, 20 bytes
	if _, err := p.Process(context.Background(), "Привет мир."); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(buf.String(), "processing: 11 chars") {
		t.Errorf("log = %q, want the character count", buf.String())
	}
}
