// Package archive keeps copies of generated report documents outside the
// database, on local disk or in an S3-compatible bucket.
package archive

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/vbonduro/depositdefender/internal/domain"
)

type Archive interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (key string, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = fmt.Errorf("archived object: %w", domain.ErrNotFound)

const keyStampLayout = "20060102T150405.000000000Z"

// Key names an object saved at the given time. The prefix becomes a single
// path segment and the UTC save time the file name, so every copy of one
// report lives under its own prefix in save order.
func Key(prefix, mimeType string, at time.Time) (string, error) {
	if prefix == "" || prefix == "." || prefix == ".." || strings.ContainsAny(prefix, `/\`) {
		return "", fmt.Errorf("archive prefix %q: %w", prefix, domain.ErrValidation)
	}
	return prefix + "/" + at.UTC().Format(keyStampLayout) + MIMETypeToExt(mimeType), nil
}

// ValidKey reports whether key has the shape produced by Key.
func ValidKey(key string) bool {
	prefix, name, ok := strings.Cut(key, "/")
	if !ok || strings.ContainsAny(name, `/\`) {
		return false
	}
	stamp := strings.TrimSuffix(name, filepath.Ext(name))
	if _, err := time.Parse(keyStampLayout, stamp); err != nil {
		return false
	}
	_, err := Key(prefix, "", time.Time{})
	return err == nil
}

func MIMETypeToExt(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}

func ExtToMIMEType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
