package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/hast"
)

// Options controls Markdown rendering.
type Options struct {
	GFM        bool
	UnsafeHTML bool
}

// OptionsFromConfig maps the markdown config section. Unset fields are enabled.
func OptionsFromConfig(c config.MarkdownConfig) Options {
	return Options{
		GFM:        c.GFM == nil || *c.GFM,
		UnsafeHTML: c.UnsafeHTML == nil || *c.UnsafeHTML,
	}
}

func newEngine(opts Options) goldmark.Markdown {
	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.GFM {
		engineOptions = append(engineOptions, goldmark.WithExtensions(extension.GFM))
	}
	if opts.UnsafeHTML {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions([]renderer.Option{html.WithUnsafe()}...))
	}
	return goldmark.New(engineOptions...)
}

// ToHTML renders a Markdown body (frontmatter already removed) to HTML.
// Fenced code blocks keep their info string as a language-* class, so
// ```leaflet fences come out as <pre><code class="language-leaflet">.
func ToHTML(body []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := newEngine(opts).Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// ToTree renders body and parses the result as an HTML fragment.
func ToTree(body []byte, opts Options) (*hast.Node, error) {
	out, err := ToHTML(body, opts)
	if err != nil {
		return nil, err
	}
	return hast.ParseFragment(bytes.NewReader(out))
}
