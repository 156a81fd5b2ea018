package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docleaflet/internal/config"
	"git.home.luguber.info/inful/docleaflet/internal/foundation/errors"
	"git.home.luguber.info/inful/docleaflet/internal/retry"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fastRetry(n int) retry.Policy {
	return retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, n)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want Source
	}{
		{"https://example.com/map.png", SourceRemote},
		{"HTTP://example.com/map.png", SourceRemote},
		{"  http://example.com/a.png", SourceRemote},
		{"map.png", SourceLocal},
		{"/static/map.png", SourceLocal},
		{"images/https-map.png", SourceLocal},
		{"ftp://example.com/map.png", SourceLocal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.ref), tt.ref)
	}
}

func TestParseReference(t *testing.T) {
	assert.Equal(t, Reference{Link: "maps/world map.png", Alias: "World"}, ParseReference("maps/world%20map.png|World"))
	assert.Equal(t, Reference{Link: "map.png"}, ParseReference(" map.png "))
	assert.Equal(t, Reference{Link: "bad%zz.png"}, ParseReference("bad%zz.png"))
}

func TestProbeDimensions_Local(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "map.png"), pngBytes(t, 40, 30), 0o600))

	p := NewProber(Options{BaseDir: dir})
	dims, err := p.ProbeDimensions(context.Background(), "img/map.png")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 40, Height: 30}, dims)

	dims, err = p.ProbeDimensions(context.Background(), "/img/map.png|Alias")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 40, Height: 30}, dims)
}

func TestProbeDimensions_LocalFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o600))
	p := NewProber(Options{BaseDir: dir})

	_, err := p.ProbeDimensions(context.Background(), "missing.png")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAsset))

	_, err = p.ProbeDimensions(context.Background(), "notes.txt")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAsset))

	_, err = p.ProbeDimensions(context.Background(), "  ")
	require.Error(t, err)
}

func TestProbeDimensions_RemoteRetriesTransientStatus(t *testing.T) {
	body := pngBytes(t, 256, 128)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "docleaflet-test", r.Header.Get("User-Agent"))
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	p := NewProber(Options{HTTPClient: srv.Client(), UserAgent: "docleaflet-test", Retry: fastRetry(2)})
	dims, err := p.ProbeDimensions(context.Background(), srv.URL+"/map.png")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 256, Height: 128}, dims)
	assert.Equal(t, int32(2), hits.Load())

	// Cached: no further requests.
	_, err = p.ProbeDimensions(context.Background(), srv.URL+"/map.png")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestProbeDimensions_RemoteNotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	p := NewProber(Options{HTTPClient: srv.Client(), Retry: fastRetry(3)})
	_, err := p.ProbeDimensions(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, errors.HasCategory(err, errors.CategoryNetwork))

	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusNotFound, status.StatusCode)
}

func TestProbeDimensions_RemoteRateLimitIsRetried(t *testing.T) {
	body := pngBytes(t, 64, 32)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	p := NewProber(Options{HTTPClient: srv.Client(), Retry: fastRetry(3)})
	dims, err := p.ProbeDimensions(context.Background(), srv.URL+"/map.png")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 64, Height: 32}, dims)
	assert.Equal(t, int32(3), hits.Load())
}

func TestProbeDimensions_ServerErrorExhaustsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProber(Options{HTTPClient: srv.Client(), Retry: fastRetry(2)})
	_, err := p.ProbeDimensions(context.Background(), srv.URL+"/map.png")
	require.Error(t, err)
	assert.Equal(t, int32(3), hits.Load())
	assert.True(t, errors.HasCategory(err, errors.CategoryNetwork))
	assert.True(t, errors.IsTransient(err))

	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusBadGateway, status.StatusCode)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(statusError("http://x/a.png", http.StatusTooManyRequests)))
	assert.True(t, isTransient(statusError("http://x/a.png", http.StatusServiceUnavailable)))
	assert.False(t, isTransient(statusError("http://x/a.png", http.StatusForbidden)))
	assert.False(t, isTransient(errors.AssetError("bad header").Build()))
	assert.False(t, isTransient(context.Canceled))
}

func TestProbeDimensions_RemoteUndecodable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	p := NewProber(Options{HTTPClient: srv.Client(), Retry: fastRetry(2)})
	_, err := p.ProbeDimensions(context.Background(), srv.URL+"/page")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAsset))
}

func TestProbeDimensions_MaxBytesTruncates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "map.png"), pngBytes(t, 10, 10), 0o600))

	p := NewProber(Options{BaseDir: dir, MaxBytes: 8})
	_, err := p.ProbeDimensions(context.Background(), "map.png")
	require.Error(t, err)
}
