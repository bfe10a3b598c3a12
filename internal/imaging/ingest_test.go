package imaging_test

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balalaika/internal/imaging"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func decodeURI(t *testing.T, uri string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestIngestDownscalesWideImages(t *testing.T) {
	uri, err := imaging.Ingest(pngOf(t, 1600, 1200))
	require.NoError(t, err)

	b := decodeURI(t, uri).Bounds()
	assert.Equal(t, 800, b.Dx())
	assert.Equal(t, 600, b.Dy())
}

func TestIngestKeepsNarrowImages(t *testing.T) {
	uri, err := imaging.Ingest(pngOf(t, 400, 300))
	require.NoError(t, err)

	b := decodeURI(t, uri).Bounds()
	assert.Equal(t, 400, b.Dx())
	assert.Equal(t, 300, b.Dy())
}

func TestIngestRejectsGarbage(t *testing.T) {
	_, err := imaging.Ingest(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, imaging.ErrNotImage)
}

// A small PNG whose header claims 20000x20000 is refused before decoding.
func TestIngestRejectsHugeDimensions(t *testing.T) {
	raw := pngOf(t, 4, 4).Bytes()
	// IHDR: width at 16, height at 20, CRC over type+data at 29
	binary.BigEndian.PutUint32(raw[16:], 20000)
	binary.BigEndian.PutUint32(raw[20:], 20000)
	binary.BigEndian.PutUint32(raw[29:], crc32.ChecksumIEEE(raw[12:29]))

	_, err := imaging.Ingest(bytes.NewReader(raw))
	assert.ErrorIs(t, err, imaging.ErrTooLarge)
}

func TestIngestAcceptsImageAtPixelCap(t *testing.T) {
	// 8000x5000 is exactly the cap
	raw := pngOf(t, 4, 4).Bytes()
	binary.BigEndian.PutUint32(raw[16:], 8000)
	binary.BigEndian.PutUint32(raw[20:], 5000)
	binary.BigEndian.PutUint32(raw[29:], crc32.ChecksumIEEE(raw[12:29]))

	_, err := imaging.Ingest(bytes.NewReader(raw))
	assert.NotErrorIs(t, err, imaging.ErrTooLarge)
}
