package blocks

import "regexp"

var reEmphasis = regexp.MustCompile(`\*\*([^*]+)\*\*|\*([^*]+)\*`)

// parseInline converts **bold** and *italic* markers into annotated spans
func parseInline(text string) []Span {
	var spans []Span
	last := 0

	for _, m := range reEmphasis.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			spans = append(spans, Span{Text: text[m[2]:m[3]], Bold: true})
		case m[4] >= 0:
			spans = append(spans, Span{Text: text[m[4]:m[5]], Italic: true})
		}
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
