// Package local archives report documents in a directory tree: one
// directory per report, one timestamped PDF per archived copy.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/vbonduro/depositdefender/internal/archive"
	"github.com/vbonduro/depositdefender/internal/domain"
)

const pdfMIME = "application/pdf"

type Archive struct {
	basePath string
	root     *os.Root
	now      func() time.Time
}

type Option func(*Archive)

func WithClock(now func() time.Time) Option {
	return func(a *Archive) { a.now = now }
}

// New opens basePath as the archive root, creating it when missing. All
// file access goes through an os.Root, so no key can reach outside it.
func New(basePath string, opts ...Option) (*Archive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	root, err := os.OpenRoot(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive directory: %w", err)
	}
	a := &Archive{basePath: basePath, root: root, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.root.Close()
}

// Save writes the document to a temporary file beside its final name and
// renames it into place, so a reader never sees a partial PDF.
func (a *Archive) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if mimeType != pdfMIME {
		return "", fmt.Errorf("local archive stores PDF reports, got %q: %w", mimeType, domain.ErrValidation)
	}
	key, err := archive.Key(prefix, mimeType, a.now())
	if err != nil {
		return "", err
	}
	if err := a.root.Mkdir(prefix, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp := key + ".partial"
	f, err := a.root.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		// os.Root has no Rename before Go 1.25. Both names come from
		// archive.Key, a single directory plus a file name.
		err = os.Rename(filepath.Join(a.basePath, filepath.FromSlash(tmp)), filepath.Join(a.basePath, filepath.FromSlash(key)))
	}
	if err != nil {
		if rerr := a.root.Remove(tmp); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			slog.Error("failed to remove partial report", "key", tmp, "error", rerr)
		}
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	return key, nil
}

func (a *Archive) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !archive.ValidKey(key) {
		return nil, "", fmt.Errorf("%s: %w", key, archive.ErrNotFound)
	}
	f, err := a.root.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", key, archive.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, archive.ExtToMIMEType(key), nil
}

// Delete removes one archived copy and, once a report has no copies left,
// its directory.
func (a *Archive) Delete(ctx context.Context, key string) error {
	if !archive.ValidKey(key) {
		return fmt.Errorf("%s: %w", key, archive.ErrNotFound)
	}
	if err := a.root.Remove(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", key, archive.ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	// Fails harmlessly while other copies remain.
	_ = a.root.Remove(path.Dir(key))
	return nil
}
