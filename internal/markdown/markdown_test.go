package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/hast"
)

func TestToTree_FencedLeafletBlock(t *testing.T) {
	body := []byte("# Map\n\n```leaflet\nimage: map.png\n```\n")
	tree, err := ToTree(body, Options{GFM: true})
	require.NoError(t, err)

	var code *hast.Node
	require.NoError(t, hast.Visit(tree, func(n *hast.Node, _ int, parent *hast.Node) hast.VisitStatus {
		if n.IsElement("code") {
			code = n
			assert.True(t, parent.IsElement("pre"))
			return hast.Stop
		}
		return hast.Continue
	}))
	require.NotNil(t, code)
	assert.Equal(t, []string{"language-leaflet"}, code.ClassNames())
	assert.Equal(t, "image: map.png\n", code.DirectText())
}

func TestToHTML_GFMAndUnsafe(t *testing.T) {
	body := []byte("| a |\n|---|\n| b |\n\n<div class=\"raw\">x</div>\n")

	out, err := ToHTML(body, Options{GFM: true, UnsafeHTML: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
	assert.Contains(t, string(out), `<div class="raw">x</div>`)

	out, err = ToHTML(body, Options{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<table>")
	assert.NotContains(t, string(out), `<div class="raw">`)
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, Options{GFM: true, UnsafeHTML: true}, OptionsFromConfig(config.MarkdownConfig{}))
	off := false
	assert.Equal(t, Options{GFM: false, UnsafeHTML: true}, OptionsFromConfig(config.MarkdownConfig{GFM: &off}))
}

func TestLoad_Frontmatter(t *testing.T) {
	doc, err := Load([]byte("---\ntitle: Atlas\nleaflet:\n  height: 300px\n  maxZoom: 6\n---\n# Body\n"))
	require.NoError(t, err)
	assert.Equal(t, "Atlas", doc.Title())
	assert.Equal(t, []byte("# Body\n"), doc.Body)

	defaults, err := doc.MapDefaults()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"height": "300px", "maxZoom": 6}, defaults)
}

func TestLoad_NoFrontmatter(t *testing.T) {
	doc, err := Load([]byte("# Body\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Title())
	defaults, err := doc.MapDefaults()
	require.NoError(t, err)
	assert.Nil(t, defaults)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]byte("---\ntitle: x\n"))
	require.Error(t, err)

	_, err = Load([]byte("---\ntitle: [\n---\n"))
	require.Error(t, err)

	doc, err := Load([]byte("---\nleaflet: nope\n---\n"))
	require.NoError(t, err)
	_, err = doc.MapDefaults()
	require.Error(t, err)
}
