package store

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/blocks"
)

// Properties are the page-level fields of a stored document
type Properties struct {
	Title string
	Link  string
}

// Document identifies a created document
type Document struct {
	ID  string
	URL string
}

// Store persists block sequences as documents
type Store interface {
	CreateDocument(ctx context.Context, props Properties, content []blocks.Block) (Document, error)
}
