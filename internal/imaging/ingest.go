// Package imaging turns uploaded product photos into the inline data URIs
// stored on products.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxWidth = 800
	Quality  = 70
	// MaxPixels bounds the decoded canvas; the header is checked before any
	// pixel buffer is allocated.
	MaxPixels = 40_000_000
)

var (
	ErrNotImage = errors.New("unsupported image format")
	ErrTooLarge = errors.New("image dimensions too large")
)

// Downscale returns img scaled to at most maxWidth pixels wide, keeping the
// aspect ratio. Narrower images are returned unchanged.
func Downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Ingest decodes r, downscales it and re-encodes it as a JPEG data URI.
func Ingest(r io.Reader) (string, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return "", ErrNotImage
		}
		return "", fmt.Errorf("decode image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", ErrTooLarge
	}

	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return "", ErrNotImage
		}
		return "", fmt.Errorf("decode image: %w", err)
	}
	return Encode(Downscale(img, MaxWidth))
}

// Encode writes img as a JPEG data URI.
func Encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
