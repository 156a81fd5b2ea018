package markdown

import (
	"fmt"

	"git.home.luguber.info/inful/docleaflet/internal/frontmatter"
)

// FrontmatterKey holds per-document map defaults in a page's frontmatter.
const FrontmatterKey = "leaflet"

// Document is a Markdown source split into frontmatter fields and body.
type Document struct {
	Fields map[string]any
	Body   []byte
}

// Load splits content into frontmatter and body.
func Load(content []byte) (*Document, error) {
	split, err := frontmatter.SplitDocument(content)
	if err != nil {
		return nil, err
	}
	doc := &Document{Fields: map[string]any{}, Body: split.Body}
	if !split.Present {
		return doc, nil
	}
	fields, err := frontmatter.ParseYAML(split.Raw)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	doc.Fields = fields
	return doc, nil
}

// MapDefaults returns the leaflet frontmatter section, or nil when absent.
func (d *Document) MapDefaults() (map[string]any, error) {
	raw, ok := d.Fields[FrontmatterKey]
	if !ok || raw == nil {
		return nil, nil
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("frontmatter %q must be a mapping, got %T", FrontmatterKey, raw)
	}
	return section, nil
}

// Title returns the frontmatter title, if any.
func (d *Document) Title() string {
	title, _ := d.Fields["title"].(string)
	return title
}
