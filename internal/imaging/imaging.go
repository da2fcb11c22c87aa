// Package imaging prepares captured photos for storage: it scales them down,
// re-encodes them as JPEG and derives a thumbnail and a watermarked copy.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"time"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const (
	MaxUploadSize = 10 * 1024 * 1024
	// MaxPixels bounds the decoded canvas. A small compressed file can
	// declare a canvas far larger than memory allows.
	MaxPixels = 50_000_000

	thumbnailWidth   = 300
	thumbnailHeight  = 200
	thumbnailQuality = 70
)

var (
	ErrUnsupportedFormat = fmt.Errorf("unsupported image format: %w", domain.ErrValidation)
	ErrTooLarge          = fmt.Errorf("image exceeds 10 MB: %w", domain.ErrValidation)
	ErrTooManyPixels     = fmt.Errorf("image exceeds 50 megapixels: %w", domain.ErrValidation)
)

type Options struct {
	MaxWidth      int
	MaxHeight     int
	Quality       int
	AddWatermark  bool
	WatermarkText string
	// Timestamp is printed in the watermark; zero means time.Now.
	Timestamp time.Time
}

func DefaultOptions() Options {
	return Options{
		MaxWidth:      1920,
		MaxHeight:     1080,
		Quality:       80,
		AddWatermark:  true,
		WatermarkText: "DepositDefender",
	}
}

type Result struct {
	Image       []byte
	Thumbnail   []byte
	Watermarked []byte
	Metadata    domain.PhotoMetadata
}

// Validate checks the file size, sniffs the content type and reads the
// image header to bound the decoded canvas. It returns the detected MIME
// type.
func Validate(data []byte) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}
	mime, ok := AllowedMIME(data)
	if !ok {
		return "", ErrUnsupportedFormat
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read image header: %w", errors.Join(ErrUnsupportedFormat, err))
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooManyPixels)
	}
	return mime, nil
}

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// isWebP reports whether data is a RIFF container tagged WEBP. The stdlib
// sniffer has no WebP signature.
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// AllowedMIME returns the detected MIME type and true for JPEG, PNG and WebP.
func AllowedMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedTypes[mime] {
		return mime, true
	}
	return "", false
}

// Process decodes data and produces the stored variants. The thumbnail and
// the watermarked copy are encoded concurrently.
func Process(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if _, err := Validate(data); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", errors.Join(ErrUnsupportedFormat, err))
	}

	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)
	scaled := resize.Resize(uint(w), uint(h), src, resize.Lanczos3)

	compressed, err := encodeJPEG(scaled, opts.Quality)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Image:    compressed,
		Metadata: domain.NewPhotoMetadata(w, h, int64(len(compressed)), int64(len(data))),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tw, th := fitWithin(w, h, thumbnailWidth, thumbnailHeight)
		thumb, err := encodeJPEG(resize.Resize(uint(tw), uint(th), scaled, resize.Lanczos3), thumbnailQuality)
		if err != nil {
			return err
		}
		res.Thumbnail = thumb
		return gctx.Err()
	})
	g.Go(func() error {
		if !opts.AddWatermark {
			res.Watermarked = compressed
			return nil
		}
		ts := opts.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		marked, err := encodeJPEG(watermark(scaled, opts.WatermarkText, ts), opts.Quality)
		if err != nil {
			return err
		}
		res.Watermarked = marked
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// fitWithin scales (w, h) down to fit inside (maxW, maxH) keeping the aspect
// ratio. Images that already fit are left alone; a zero bound is ignored.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	fw, fh := float64(w), float64(h)
	if maxW > 0 && fw > float64(maxW) {
		fh = fh * float64(maxW) / fw
		fw = float64(maxW)
	}
	if maxH > 0 && fh > float64(maxH) {
		fw = fw * float64(maxH) / fh
		fh = float64(maxH)
	}
	return max(1, int(math.Round(fw))), max(1, int(math.Round(fh)))
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

const watermarkPadding = 10

// watermark stamps "<text> - <timestamp>" on a translucent box in the bottom
// right corner of a copy of img.
func watermark(img image.Image, text string, ts time.Time) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)

	label := fmt.Sprintf("%s - %s", text, ts.Format("2006-01-02 15:04:05"))
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 230}),
		Face: face,
	}
	textW := d.MeasureString(label).Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	x := b.Max.X - textW - watermarkPadding
	y := b.Max.Y - watermarkPadding
	box := image.Rect(x-4, y-ascent-4, x+textW+4, y+4).Intersect(b)
	draw.Draw(dst, box, image.NewUniform(color.NRGBA{A: 128}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y)
	d.DrawString(label)
	return dst
}

// FormatSize renders a byte count as "1.5 MB" and the like.
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100
	return fmt.Sprintf("%s %s", trimFloat(v), units[i])
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
