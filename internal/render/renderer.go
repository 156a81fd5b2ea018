package render

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/hast"
	"git.home.luguber.info/inful/docleaflet/internal/leaflet"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
	"git.home.luguber.info/inful/docleaflet/internal/markdown"
)

// Leaflet assets linked from standalone pages.
const (
	LeafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	LeafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

// Options configures a Renderer.
type Options struct {
	Markdown   markdown.Options
	Standalone bool // wrap fragments in a full page that loads Leaflet
	Logger     *slog.Logger
}

// Renderer turns source documents into HTML with map embeds.
type Renderer struct {
	transformer *leaflet.Transformer
	opts        Options
	logger      *slog.Logger
}

// NewRenderer creates a Renderer around a configured transformer.
func NewRenderer(t *leaflet.Transformer, opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{transformer: t, opts: opts, logger: logger}
}

// Result is a rendered document.
type Result struct {
	HTML   []byte
	Title  string
	Report *leaflet.Report
}

// Document is a parsed source ready for the transform.
type Document struct {
	Tree     *hast.Node
	Title    string
	Full     bool // Tree is a complete HTML document
	Defaults *leaflet.MapConfig
}

// Parse reads content in the given format into a tree. Per-document map
// defaults from Markdown frontmatter are applied over the transformer's.
func (r *Renderer) Parse(content []byte, format Format) (*Document, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat("", content)
	}
	if format == FormatHTML {
		if isFullDocument(content) {
			tree, err := hast.ParseDocument(bytes.NewReader(content))
			if err != nil {
				return nil, err
			}
			return &Document{Tree: tree, Full: true}, nil
		}
		tree, err := hast.ParseFragment(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		return &Document{Tree: tree}, nil
	}

	src, err := markdown.Load(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid markdown frontmatter").Build()
	}
	doc := &Document{Title: src.Title()}
	fields, err := src.MapDefaults()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid leaflet frontmatter").Build()
	}
	if fields != nil {
		d, err := r.transformer.Defaults().Override(fields)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid leaflet frontmatter").Build()
		}
		doc.Defaults = &d
	}
	doc.Tree, err = markdown.ToTree(src.Body, r.opts.Markdown)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render markdown").Build()
	}
	return doc, nil
}

// Transform runs the map transform over doc in place.
func (r *Renderer) Transform(ctx context.Context, doc *Document) (*leaflet.Report, error) {
	return r.transformerFor(doc).Transform(ctx, doc.Tree)
}

// Inspect reports how each map block in content would be embedded.
func (r *Renderer) Inspect(ctx context.Context, content []byte, format Format) ([]leaflet.Inspection, error) {
	doc, err := r.Parse(content, format)
	if err != nil {
		return nil, err
	}
	return r.transformerFor(doc).Inspect(ctx, doc.Tree)
}

func (r *Renderer) transformerFor(doc *Document) *leaflet.Transformer {
	if doc.Defaults != nil {
		return r.transformer.WithDefaults(*doc.Defaults)
	}
	return r.transformer
}

// Render parses, transforms and serializes content. Failed blocks are left
// in place and listed in the result's report; only document level problems
// are returned as errors.
func (r *Renderer) Render(ctx context.Context, content []byte, format Format) (*Result, error) {
	start := time.Now()
	doc, err := r.Parse(content, format)
	if err != nil {
		return nil, err
	}
	report, err := r.Transform(ctx, doc)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "map transform failed").Build()
	}

	tree := doc.Tree
	if r.opts.Standalone && !doc.Full {
		tree = Page(doc.Title, tree)
	}
	var buf bytes.Buffer
	if err := hast.Render(&buf, tree); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to serialize HTML").Build()
	}
	r.logger.Debug("Rendered document",
		logfields.Count(len(report.Blocks)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return &Result{HTML: buf.Bytes(), Title: doc.Title, Report: report}, nil
}

// Page wraps a fragment tree in a complete HTML page that loads Leaflet.
func Page(title string, fragment *hast.Node) *hast.Node {
	if title == "" {
		title = "Map"
	}
	body := hast.Element("body", nil)
	if fragment.Type == hast.RootNode {
		body.Children = fragment.Children
	} else {
		body.Children = []*hast.Node{fragment}
	}
	return hast.Root(
		&hast.Node{Type: hast.DoctypeNode, Value: "html"},
		hast.Element("html", nil,
			hast.Element("head", nil,
				hast.Element("meta", map[string]any{"charset": "utf-8"}),
				hast.Element("title", nil, hast.Text(title)),
				hast.Element("link", map[string]any{"rel": "stylesheet", "href": LeafletCSS}),
				hast.Element("script", map[string]any{"src": LeafletJS}),
			),
			body,
		),
	)
}
