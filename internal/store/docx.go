package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/transcript-flow/internal/artifact"
	"github.com/nguyentantai21042004/transcript-flow/internal/blocks"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
)

type implDocx struct {
	dir    string
	logger logger.Logger
}

// NewDocx creates a Store that writes each document as a .docx file under dir
func NewDocx(dir string, log logger.Logger) Store {
	return &implDocx{dir: dir, logger: log}
}

// CreateDocument renders the blocks into a styled docx file.
// The document URL is the file:// location of the written file.
func (d *implDocx) CreateDocument(ctx context.Context, props Properties, content []blocks.Block) (Document, error) {
	if props.Title == "" {
		return Document{}, ErrMissingTitle
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return Document{}, fmt.Errorf("create docx dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return Document{}, fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), props.Title, true, titleSize)
	if props.Link != "" {
		doc.AddParagraph("").AddText(props.Link).Font(fontName).Size(fontSize).Color("1F4E79")
	}

	for _, b := range content {
		p := doc.AddParagraph("")
		size := headingSize(b.Kind)
		for _, s := range b.Spans {
			run := p.AddText(s.Text).Font(fontName).Size(size).Color("000000")
			if s.Bold || b.Kind != blocks.KindParagraph {
				run.Bold(true)
			}
			if s.Italic {
				run.Italic(true)
			}
		}
	}

	id := uuid.NewString()
	path := filepath.Join(d.dir, artifact.SanitizeFilename(props.Title)+"-"+id[:8]+".docx")
	if err := doc.SaveTo(path); err != nil {
		return Document{}, fmt.Errorf("save docx: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	d.logger.Debug(ctx, "Wrote %s (%d blocks)", abs, len(content))

	return Document{
		ID:  id,
		URL: (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
	}, nil
}

func headingSize(kind blocks.Kind) uint64 {
	switch kind {
	case blocks.KindHeading2:
		return 15
	case blocks.KindHeading3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
