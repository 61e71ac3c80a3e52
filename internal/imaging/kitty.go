package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Terminal cell size assumed when converting pixels to columns and rows.
const (
	CellWidth  = 10
	CellHeight = 20
)

const kittyChunkSize = 4096

// Fit scales img down so it spans at most maxCols terminal columns and
// reports the cell footprint of the result.
func Fit(img image.Image, maxCols int) (image.Image, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return img, 0, 0
	}
	if maxCols <= 0 {
		maxCols = 1
	}
	out := img
	limit := maxCols * CellWidth
	if w > limit {
		nh := int(math.Round(float64(h) * float64(limit) / float64(w)))
		if nh < 1 {
			nh = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, limit, nh))
		xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
		out = scaled
		w, h = limit, nh
	}
	cols := (w + CellWidth - 1) / CellWidth
	rows := (h + CellHeight - 1) / CellHeight
	return out, cols, rows
}

// EncodeKitty encodes img as PNG and frames it as kitty graphics commands
// that transmit and display the image over cols x rows cells.
func EncodeKitty(img image.Image, cols, rows int) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("imaging: encode png: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	header := fmt.Sprintf("a=T,f=100,c=%d,r=%d,", cols, rows)
	var b strings.Builder
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := i + kittyChunkSize
		more := 1
		if end >= len(encoded) {
			end = len(encoded)
			more = 0
		}
		b.WriteString("\x1b_G")
		if i == 0 {
			b.WriteString(header)
		}
		fmt.Fprintf(&b, "m=%d;", more)
		b.WriteString(encoded[i:end])
		b.WriteString("\x1b\\")
	}
	return b.String(), nil
}
