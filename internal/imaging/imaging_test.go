package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolveLocalPathAndFileURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 4, 3), 0o644))

	r := NewResolver(zerolog.Nop())
	img, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	img, err = r.Resolve(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dy())

	r.BaseDir = dir
	_, err = r.Resolve(context.Background(), "pic.png")
	require.NoError(t, err)
}

func TestResolveHTTPRetriesServerErrors(t *testing.T) {
	t.Parallel()

	data := pngBytes(t, 2, 2)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	r := NewResolver(zerolog.Nop())
	r.Backoff = time.Millisecond
	img, err := r.Resolve(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, int32(2), hits.Load())
}

func TestResolveHTTPDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := NewResolver(zerolog.Nop())
	r.Backoff = time.Millisecond
	_, err := r.Resolve(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), hits.Load())
}

func TestResolveRejectsEmptyAndGarbage(t *testing.T) {
	t.Parallel()

	r := NewResolver(zerolog.Nop())
	_, err := r.Resolve(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrEmptySource))

	_, err = Decode([]byte("not an image"))
	require.Error(t, err)
}

func TestDecodeRejectsHugeDimensions(t *testing.T) {
	t.Parallel()

	_, err := Decode(pngBytes(t, MaxImageWidth+1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestFitScalesToColumns(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out, cols, rows := Fit(img, 20)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())
	assert.Equal(t, 20, cols)
	assert.Equal(t, 5, rows)

	small := image.NewRGBA(image.Rect(0, 0, 15, 15))
	out, cols, rows = Fit(small, 20)
	assert.Same(t, small, out)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1, rows)
}

func TestEncodeKittyChunks(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	seq, err := EncodeKitty(img, 1, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(seq, "\x1b_Ga=T,f=100,c=1,r=1,m=0;"))
	assert.True(t, strings.HasSuffix(seq, "\x1b\\"))

	noisy := image.NewRGBA(image.Rect(0, 0, 128, 128))
	rng := rand.New(rand.NewSource(1))
	_, _ = rng.Read(noisy.Pix)
	seq, err = EncodeKitty(noisy, 13, 7)
	require.NoError(t, err)
	parts := strings.Split(seq, "\x1b\\")
	require.Greater(t, len(parts), 2)
	assert.Contains(t, parts[0], "m=1;")
	last := parts[len(parts)-2]
	assert.Contains(t, last, "m=0;")
	assert.NotContains(t, parts[1], "a=T")
}
