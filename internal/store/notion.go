package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jomei/notionapi"

	"github.com/nguyentantai21042004/transcript-flow/internal/blocks"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

const notionVersion = "2022-06-28"

// NotionConfig addresses one Notion database. BaseURL overrides the API host.
type NotionConfig struct {
	BaseURL       string
	APIKey        string
	DatabaseID    string
	TitleProperty string
	LinkProperty  string
}

type implNotion struct {
	cfg    NotionConfig
	client *notionapi.Client
	logger logger.Logger
}

// NewNotion creates a Store that adds pages to a Notion database
func NewNotion(cfg NotionConfig, httpClient *http.Client, log logger.Logger) (Store, error) {
	if cfg.TitleProperty == "" {
		cfg.TitleProperty = "title"
	}
	if cfg.LinkProperty == "" {
		cfg.LinkProperty = "link"
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil || base.Host == "" {
			return nil, fmt.Errorf("notion base url %q is invalid", cfg.BaseURL)
		}
		next := httpClient.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		rewritten := *httpClient
		rewritten.Transport = &hostRewriter{base: base, next: next}
		httpClient = &rewritten
	}

	client := notionapi.NewClient(notionapi.Token(cfg.APIKey),
		notionapi.WithHTTPClient(httpClient),
		notionapi.WithVersion(notionVersion),
	)
	return &implNotion{cfg: cfg, client: client, logger: log}, nil
}

// CreateDocument creates one page whose children are the given blocks
func (n *implNotion) CreateDocument(ctx context.Context, props Properties, content []blocks.Block) (Document, error) {
	if props.Title == "" {
		return Document{}, ErrMissingTitle
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(n.cfg.DatabaseID),
		},
		Properties: notionapi.Properties{
			n.cfg.TitleProperty: notionapi.TitleProperty{
				Type:  notionapi.PropertyTypeTitle,
				Title: []notionapi.RichText{plainText(props.Title)},
			},
		},
		Children: make([]notionapi.Block, 0, len(content)),
	}
	if props.Link != "" {
		req.Properties[n.cfg.LinkProperty] = notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  props.Link,
		}
	}
	for _, b := range content {
		req.Children = append(req.Children, notionBlock(b))
	}

	page, err := n.client.Page.Create(ctx, req)
	if err != nil {
		var apiErr *notionapi.Error
		if errors.As(err, &apiErr) {
			return Document{}, &APIError{Status: apiErr.Status, Code: string(apiErr.Code), Message: apiErr.Message}
		}
		return Document{}, fmt.Errorf("create page: %w", err)
	}

	n.logger.Debug(ctx, "Created Notion page %s with %d blocks", page.ID, len(content))
	return Document{ID: page.ID.String(), URL: page.URL}, nil
}

func plainText(s string) notionapi.RichText {
	return notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}
}

func notionBlock(b blocks.Block) notionapi.Block {
	rich := make([]notionapi.RichText, 0, len(b.Spans))
	for _, s := range b.Spans {
		rt := plainText(s.Text)
		if s.Bold || s.Italic {
			rt.Annotations = &notionapi.Annotations{Bold: s.Bold, Italic: s.Italic}
		}
		rich = append(rich, rt)
	}

	switch b.Kind {
	case blocks.KindHeading2:
		return notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading2},
			Heading2:   notionapi.Heading{RichText: rich},
		}
	case blocks.KindHeading3:
		return notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading3},
			Heading3:   notionapi.Heading{RichText: rich},
		}
	default:
		return notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeParagraph},
			Paragraph:  notionapi.Paragraph{RichText: rich},
		}
	}
}

// hostRewriter sends every request to base instead of the public API host
type hostRewriter struct {
	base *url.URL
	next http.RoundTripper
}

func (h *hostRewriter) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = h.base.Scheme
	r.URL.Host = h.base.Host
	r.Host = h.base.Host
	return h.next.RoundTrip(r)
}
