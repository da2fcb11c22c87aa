package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vbonduro/depositdefender/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestProcess_ScalesDownLargeImage(t *testing.T) {
	data := gradientPNG(t, 2000, 1000)

	res, err := Process(context.Background(), data, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1920, res.Metadata.Width)
	assert.Equal(t, 960, res.Metadata.Height)
	assert.Equal(t, int64(len(res.Image)), res.Metadata.Size)
	assert.Equal(t, int64(len(data)), res.Metadata.OriginalSize)
	assert.InDelta(t, domain.CompressionRatio(res.Metadata.Size, res.Metadata.OriginalSize), res.Metadata.CompressionRatio, 1e-12)

	img := decodeJPEG(t, res.Image)
	assert.Equal(t, image.Rect(0, 0, 1920, 960), img.Bounds())

	thumb := decodeJPEG(t, res.Thumbnail)
	assert.Equal(t, image.Rect(0, 0, 300, 150), thumb.Bounds())

	marked := decodeJPEG(t, res.Watermarked)
	assert.Equal(t, img.Bounds(), marked.Bounds())
	assert.NotEqual(t, res.Image, res.Watermarked)
}

func TestProcess_SmallImageKeepsSize(t *testing.T) {
	data := gradientPNG(t, 400, 300)

	opts := DefaultOptions()
	opts.AddWatermark = false
	res, err := Process(context.Background(), data, opts)
	require.NoError(t, err)

	assert.Equal(t, 400, res.Metadata.Width)
	assert.Equal(t, 300, res.Metadata.Height)
	assert.Equal(t, res.Image, res.Watermarked)

	thumb := decodeJPEG(t, res.Thumbnail)
	assert.Equal(t, image.Rect(0, 0, 267, 200), thumb.Bounds())
}

func TestProcess_RejectsNonImage(t *testing.T) {
	_, err := Process(context.Background(), []byte("not an image at all"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWatermarkChangesBottomRight(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	out := watermark(src, "DepositDefender", time.Date(2025, 6, 30, 14, 5, 0, 0, time.UTC))

	// Top-left is untouched, the label box darkens the bottom-right corner.
	assert.Equal(t, src.At(0, 0), out.At(0, 0))
	assert.NotEqual(t, src.At(300, 80), out.At(300, 80))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, src.At(300, 80))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{"fits", 800, 600, 1920, 1080, 800, 600},
		{"too wide", 3840, 1080, 1920, 1080, 1920, 540},
		{"too tall", 1000, 2000, 1920, 1080, 540, 1080},
		{"both", 4000, 3000, 1920, 1080, 1440, 1080},
		{"thumbnail", 1920, 1080, 300, 200, 300, 169},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestValidate(t *testing.T) {
	mime, err := Validate(gradientPNG(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	// A WebP signature over a truncated body is sniffed but not decodable.
	webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 8)...)
	mime, ok := AllowedMIME(webp)
	assert.True(t, ok)
	assert.Equal(t, "image/webp", mime)
	_, err = Validate(webp)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Validate([]byte("GIF89a......"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Validate(make([]byte, MaxUploadSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

// pngHeader returns a PNG holding only a signature and an IHDR chunk. It is
// enough for DecodeConfig and costs a few bytes whatever the canvas size.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestValidate_RejectsOversizedCanvas(t *testing.T) {
	bomb := pngHeader(20000, 20000)
	require.Less(t, len(bomb), 100)

	_, err := Validate(bomb)
	assert.ErrorIs(t, err, ErrTooManyPixels)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Process(context.Background(), bomb, DefaultOptions())
	assert.ErrorIs(t, err, ErrTooManyPixels)

	mime, err := Validate(pngHeader(8000, 6000))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatSize(0))
	assert.Equal(t, "512 Bytes", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "1 MB", FormatSize(1024*1024))
	assert.Equal(t, "2.25 GB", FormatSize(2415919104))
}
