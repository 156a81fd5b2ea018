package render

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docleaflet/internal/asset"
	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/leaflet"
	"git.home.luguber.info/inful/docleaflet/internal/markdown"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func newRenderer(t *testing.T, baseDir string, standalone bool) *Renderer {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.BaseDir = baseDir
	prober := asset.NewProberFromConfig(cfg.Assets, nil, nil)
	tr := leaflet.NewTransformerFromConfig(cfg, prober, nil, nil)
	return NewRenderer(tr, Options{Markdown: markdown.OptionsFromConfig(cfg.Markdown), Standalone: standalone})
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatMarkdown, DetectFormat("notes.md", nil))
	assert.Equal(t, FormatHTML, DetectFormat("page.HTML", nil))
	assert.Equal(t, FormatHTML, DetectFormat("", []byte("  <!DOCTYPE html><html></html>")))
	assert.Equal(t, FormatMarkdown, DetectFormat("", []byte("# Title")))
}

func TestRender_MarkdownWithDerivedBounds(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "world.png"), 200, 100)

	src := "---\ntitle: Atlas\nleaflet:\n  height: 320px\n---\n# Atlas\n\n```leaflet\nimage: world.png\n```\n\nAfter.\n"
	res, err := newRenderer(t, dir, false).Render(context.Background(), []byte(src), FormatMarkdown)
	require.NoError(t, err)
	require.NoError(t, res.Report.Err())
	assert.Equal(t, "Atlas", res.Title)

	out := string(res.HTML)
	assert.NotContains(t, out, "<pre>")
	assert.Contains(t, out, `<div id="leaflet-map-1" class="leaflet-map" style="width: 100%; height: 320px;"></div>`)
	assert.Contains(t, out, "L.latLngBounds([[-0.1953125,0],[0,0.390625]])")
	assert.Less(t, strings.Index(out, "<h1"), strings.Index(out, "leaflet-map-1"))
	assert.Less(t, strings.Index(out, "leaflet-map-1"), strings.Index(out, "After."))
}

func TestRender_FailedBlockIsMarked(t *testing.T) {
	src := "```leaflet\nimage: missing.png\n```\n\n```leaflet\nlat: 1\n```\n"
	res, err := newRenderer(t, t.TempDir(), false).Render(context.Background(), []byte(src), FormatMarkdown)
	require.NoError(t, err)

	failed := res.Report.Failed()
	require.Len(t, failed, 1)
	assert.True(t, leaflet.IsGeometryResolutionError(failed[0].Err))

	out := string(res.HTML)
	assert.Contains(t, out, `<pre data-leaflet-error="geometry"><code class="language-leaflet">image: missing.png`)
	assert.Contains(t, out, `id="leaflet-map-2"`)
}

func TestRender_HTMLDocument(t *testing.T) {
	src := `<!DOCTYPE html><html><head><title>x</title></head><body><p>a</p><pre><code class="language-leaflet">{"image": "map.png", "bounds": [[0,0],[100,200]]}</code></pre></body></html>`
	res, err := newRenderer(t, t.TempDir(), true).Render(context.Background(), []byte(src), FormatAuto)
	require.NoError(t, err)

	out := string(res.HTML)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html><html><head><title>x</title>"))
	assert.NotContains(t, out, LeafletJS, "complete documents are not wrapped")
	assert.Contains(t, out, `L.imageOverlay("map.png", bounds)`)
}

func TestRender_StandalonePage(t *testing.T) {
	res, err := newRenderer(t, t.TempDir(), true).Render(context.Background(), []byte("---\ntitle: Trip\n---\n```leaflet\n```\n"), FormatMarkdown)
	require.NoError(t, err)
	out := string(res.HTML)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Trip</title>")
	assert.Contains(t, out, `<link href="`+LeafletCSS+`" rel="stylesheet"/>`)
	assert.Contains(t, out, `<script src="`+LeafletJS+`"></script>`)
	assert.Contains(t, out, "L.tileLayer(")
}

func TestRender_InvalidFrontmatter(t *testing.T) {
	r := newRenderer(t, t.TempDir(), false)
	_, err := r.Render(context.Background(), []byte("---\nleaflet: [1]\n---\n"), FormatMarkdown)
	require.Error(t, err)

	_, err = r.Render(context.Background(), []byte("---\nleaflet:\n  maxZoom: high\n---\n"), FormatMarkdown)
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	src := "```leaflet\nid: one\nbounds: [[0,0],[5,5]]\nimage: a.png\n```\n"
	got, err := newRenderer(t, t.TempDir(), false).Inspect(context.Background(), []byte(src), FormatMarkdown)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].MapID)
	assert.Equal(t, leaflet.ModeExplicit, got[0].Mode)
}
