package mdriver

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pkt.systems/mdriver/internal/imaging"
)

// ErrUnsupportedImageProtocol reports an image protocol name other than
// none or kitty.
var ErrUnsupportedImageProtocol = errors.New("unsupported image protocol")

// ImageProtocol selects how images are drawn.
type ImageProtocol uint8

const (
	// ImageNone renders images as literal ![alt](src) text.
	ImageNone ImageProtocol = iota
	// ImageKitty draws images with the kitty graphics protocol.
	ImageKitty
)

func (p ImageProtocol) String() string {
	if p == ImageKitty {
		return "kitty"
	}
	return "none"
}

// ParseImageProtocol maps a protocol name to an ImageProtocol.
func ParseImageProtocol(name string) (ImageProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "off":
		return ImageNone, nil
	case "kitty":
		return ImageKitty, nil
	}
	return ImageNone, fmt.Errorf("%w %q", ErrUnsupportedImageProtocol, name)
}

// ImageResolver loads and decodes the image behind a local path or URL.
type ImageResolver interface {
	Resolve(ctx context.Context, source string) (image.Image, error)
}

// DefaultImageColumns is the column budget for images when wrapping is off.
const DefaultImageColumns = 80

type imageEntry struct {
	seq string
	ok  bool
}

// imageRenderer turns an image source into kitty escape data. Results are
// cached per source and column budget so repeated images resolve once.
type imageRenderer struct {
	protocol ImageProtocol
	resolver ImageResolver
	timeout  time.Duration
	logger   zerolog.Logger
	cache    map[string]imageEntry
}

func newImageRenderer(cfg renderConfig) *imageRenderer {
	resolver := cfg.resolver
	if resolver == nil && cfg.images == ImageKitty {
		resolver = imaging.NewResolver(cfg.logger)
	}
	return &imageRenderer{
		protocol: cfg.images,
		resolver: resolver,
		timeout:  cfg.imageTimeout,
		logger:   cfg.logger.With().Str("component", "images").Logger(),
		cache:    make(map[string]imageEntry),
	}
}

// render returns the escape sequence drawing source within cols columns.
// It reports false when the image could not be drawn.
func (r *imageRenderer) render(source string, cols int) (string, bool) {
	if r.protocol != ImageKitty || r.resolver == nil {
		return "", false
	}
	if cols <= 0 {
		cols = DefaultImageColumns
	}
	key := fmt.Sprintf("%d:%s", cols, source)
	if e, ok := r.cache[key]; ok {
		return e.seq, e.ok
	}
	seq, err := r.draw(source, cols)
	if err != nil {
		r.logger.Warn().Err(err).Str("source", source).Msg("image unavailable, rendering alt text")
	}
	e := imageEntry{seq: seq, ok: err == nil}
	r.cache[key] = e
	return e.seq, e.ok
}

func (r *imageRenderer) draw(source string, cols int) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	img, err := r.resolver.Resolve(ctx, source)
	if err != nil {
		return "", err
	}
	scaled, c, rows := imaging.Fit(img, cols)
	return imaging.EncodeKitty(scaled, c, rows)
}
