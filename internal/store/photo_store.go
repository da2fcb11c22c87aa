package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const photoColumns = `id, checklist_item_id, filename, image, thumbnail, watermarked, taken_at,
	width, height, size, original_size, compression_ratio`

func scanPhoto(sc scanner) (*domain.Photo, error) {
	p := &domain.Photo{}
	var taken int64
	m := &p.Metadata
	if err := sc.Scan(&p.ID, &p.ChecklistItemID, &p.Filename, &p.Image, &p.Thumbnail, &p.Watermarked, &taken,
		&m.Width, &m.Height, &m.Size, &m.OriginalSize, &m.CompressionRatio); err != nil {
		return nil, err
	}
	p.Timestamp = fromNanos(taken)
	return p, nil
}

// CreatePhoto stores p under a new id. The compression ratio is derived from
// the metadata sizes here and never changes afterwards. A zero timestamp is
// replaced by the capture time.
func (s *Store) CreatePhoto(ctx context.Context, p domain.Photo) (*domain.Photo, error) {
	if len(p.Image) == 0 {
		return nil, fmt.Errorf("photo image is empty: %w", domain.ErrValidation)
	}
	p.ID = newID()
	if p.Timestamp.IsZero() {
		p.Timestamp = s.stamp()
	}
	p.Timestamp = p.Timestamp.UTC()
	p.Metadata.CompressionRatio = domain.CompressionRatio(p.Metadata.Size, p.Metadata.OriginalSize)

	m := p.Metadata
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (`+photoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ChecklistItemID, p.Filename, p.Image, p.Thumbnail, p.Watermarked, toNanos(p.Timestamp),
		m.Width, m.Height, m.Size, m.OriginalSize, m.CompressionRatio)
	if err != nil {
		return nil, wrapErr("create photo", err)
	}
	return &p, nil
}

func (s *Store) GetPhoto(ctx context.Context, id string) (*domain.Photo, error) {
	p, err := scanPhoto(s.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete photo", err)
	}
	return expectOne(result, "photo "+id)
}

// ListPhotosByChecklistItem returns photos in capture order.
func (s *Store) ListPhotosByChecklistItem(ctx context.Context, itemID string) ([]*domain.Photo, error) {
	return listPhotosByChecklistItem(ctx, s.db, itemID)
}

func listPhotosByChecklistItem(ctx context.Context, q querier, itemID string) ([]*domain.Photo, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE checklist_item_id = ? ORDER BY taken_at, rowid
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return collect(rows, scanPhoto, "photo")
}
