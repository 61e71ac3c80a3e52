// Package imaging resolves image sources, scales them to a terminal column
// budget, and encodes them for the kitty graphics protocol.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Limits applied to every resolved image.
const (
	MaxImageWidth  = 4096
	MaxImageHeight = 4096
	MaxImageBytes  = 16 * 1024 * 1024
)

var (
	// ErrTooLarge reports an image over the byte or pixel limits.
	ErrTooLarge = errors.New("image too large")
	// ErrEmptySource reports an empty image source.
	ErrEmptySource = errors.New("empty image source")
)

// Resolver loads images from local paths, file:// URLs and http(s) URLs.
type Resolver struct {
	Client  *http.Client
	BaseDir string
	Retries int
	Backoff time.Duration
	logger  zerolog.Logger
}

// NewResolver returns a Resolver with two retries for transient HTTP
// failures.
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		Client:  http.DefaultClient,
		Retries: 2,
		Backoff: 200 * time.Millisecond,
		logger:  logger.With().Str("component", "imaging").Logger(),
	}
}

// Resolve fetches and decodes source.
func (r *Resolver) Resolve(ctx context.Context, source string) (image.Image, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}
	data, err := r.fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode decodes data after checking the pixel limits.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode config: %w", err)
	}
	if cfg.Width > MaxImageWidth || cfg.Height > MaxImageHeight {
		return nil, fmt.Errorf("imaging: %dx%d exceeds %dx%d: %w", cfg.Width, cfg.Height, MaxImageWidth, MaxImageHeight, ErrTooLarge)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return img, nil
}

func (r *Resolver) fetch(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return r.fetchHTTP(ctx, source)
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			return readLimited(path)
		}
	}
	path := source
	if !filepath.IsAbs(path) && r.BaseDir != "" {
		path = filepath.Join(r.BaseDir, path)
	}
	return readLimited(path)
}

func (r *Resolver) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	var lastErr error
	for attempt := 0; attempt <= r.Retries; attempt++ {
		if attempt > 0 {
			r.logger.Debug().Str("source", source).Int("attempt", attempt).Err(lastErr).Msg("retrying image fetch")
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("imaging: fetch %s: %w", source, ctx.Err())
			case <-time.After(r.Backoff * time.Duration(attempt)):
			}
		}
		data, retry, err := r.fetchOnce(ctx, client, source)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

func (r *Resolver) fetchOnce(ctx context.Context, client *http.Client, source string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, false, fmt.Errorf("imaging: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("imaging: fetch %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("imaging: fetch %s: status %s", source, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("imaging: fetch %s: status %s", source, resp.Status)
	}
	data, err := readAllLimited(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imaging: open: %w", err)
	}
	defer f.Close()
	return readAllLimited(f)
}

func readAllLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imaging: read: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("imaging: body over %d bytes: %w", MaxImageBytes, ErrTooLarge)
	}
	return data, nil
}
