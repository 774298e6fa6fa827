package blocks

import "strings"

const (
	DefaultMaxBlockChars = 2000
	DefaultMaxBlocks     = 99
)

// Kind is the type of a persisted block
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeading2  Kind = "heading_2"
	KindHeading3  Kind = "heading_3"
)

// Span is a run of text sharing the same inline annotations
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// Block is a single persistable unit of markdown content
type Block struct {
	Kind  Kind
	Spans []Span
}

// Text returns the block content without inline markers
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Options caps block size and count; zero values take the defaults
type Options struct {
	MaxBlockChars int
	MaxBlocks     int
}

// Result is the ordered block sequence. Truncated reports that Dropped blocks
// were cut off at MaxBlocks.
type Result struct {
	Blocks    []Block
	Truncated bool
	Dropped   int
}

func (o Options) withDefaults() Options {
	if o.MaxBlockChars <= 0 {
		o.MaxBlockChars = DefaultMaxBlockChars
	}
	if o.MaxBlocks <= 0 {
		o.MaxBlocks = DefaultMaxBlocks
	}
	return o
}

// Convert turns markdown into typed blocks. Every block holds at most
// MaxBlockChars characters and at most MaxBlocks blocks are emitted.
func Convert(markdown string, opts Options) Result {
	opts = opts.withDefaults()

	var res Result
	for _, unit := range SplitParagraphs(markdown, opts.MaxBlockChars) {
		for _, line := range strings.Split(unit, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if len(res.Blocks) >= opts.MaxBlocks {
				res.Truncated = true
				res.Dropped++
				continue
			}
			res.Blocks = append(res.Blocks, parseLine(line))
		}
	}
	return res
}

func parseLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return Block{Kind: KindHeading3, Spans: parseInline(strings.TrimSpace(line[4:]))}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: KindHeading2, Spans: parseInline(strings.TrimSpace(line[3:]))}
	default:
		return Block{Kind: KindParagraph, Spans: parseInline(line)}
	}
}
