package artifact

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
)

const maxFilenameRunes = 50

var (
	reUnsafeName = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,()]`)
	reNameSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename keeps letters, digits, spaces and -.,() and caps the name at 50 characters
func SanitizeFilename(name string) string {
	safe := strings.TrimSpace(reUnsafeName.ReplaceAllString(name, ""))
	safe = reNameSpaces.ReplaceAllString(safe, " ")
	if r := []rune(safe); len(r) > maxFilenameRunes {
		safe = string(r[:maxFilenameRunes])
	}
	if safe = strings.TrimSpace(safe); safe == "" {
		return "result"
	}
	return safe
}

// Writer saves the text variants of a result as local files
type Writer struct {
	dir      string
	markdown goldmark.Markdown
	logger   logger.Logger
}

// NewWriter creates a Writer rooted at dir
func NewWriter(dir string, log logger.Logger) *Writer {
	return &Writer{dir: dir, markdown: goldmark.New(), logger: log}
}

// Write stores <name>.txt, <name>-structure.md and its HTML rendering, and
// trnsl-<name>.txt when a translation exists. It returns the written paths.
func (w *Writer) Write(ctx context.Context, title string, res processor.Result) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := SanitizeFilename(title)
	files := []struct {
		name    string
		content string
	}{
		{base + ".txt", res.ReadableText},
		{base + "-structure.md", res.StructuredMarkdown},
		{"trnsl-" + base + ".txt", res.TranslatedText},
		{base + "-structure-source.md", res.StructuredTranslationMarkdown},
	}

	var written []string
	for _, f := range files {
		if f.content == "" {
			continue
		}
		path := filepath.Join(w.dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	if res.StructuredMarkdown != "" {
		page, err := w.renderHTML(title, res.StructuredMarkdown)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", base, err)
		}
		path := filepath.Join(w.dir, base+"-structure.html")
		if err := os.WriteFile(path, page, 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
	}

	w.logger.Info(ctx, "Wrote %d files for %q to %s", len(written), title, w.dir)
	return written, nil
}

func (w *Writer) renderHTML(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := w.markdown.Convert([]byte(markdown), &body); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(title))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
