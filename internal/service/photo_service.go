package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/assess"
	"github.com/vbonduro/depositdefender/internal/domain"
	"github.com/vbonduro/depositdefender/internal/imaging"
)

// AttachPhoto validates and processes an uploaded image and stores it
// against a checklist item.
func (s *InspectionService) AttachPhoto(ctx context.Context, itemID string, data []byte, filename string) (*domain.Photo, error) {
	s.logger.Info("attach photo started", "item_id", itemID, "filename", filename, "bytes", len(data))

	item, err := s.GetChecklistItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := imaging.Validate(data); err != nil {
		return nil, err
	}

	now := s.now()
	opts := s.imageOpt
	opts.Timestamp = now
	processed, err := imaging.Process(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	photo, err := s.store.CreatePhoto(ctx, domain.Photo{
		ChecklistItemID: item.ID,
		Filename:        filename,
		Image:           processed.Image,
		Thumbnail:       processed.Thumbnail,
		Watermarked:     processed.Watermarked,
		Timestamp:       now,
		Metadata:        processed.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}
	s.touchForRoom(ctx, item.RoomID)

	s.logger.Info("attach photo complete", "item_id", itemID, "photo_id", photo.ID,
		"size", imaging.FormatSize(photo.Metadata.Size), "original_size", imaging.FormatSize(photo.Metadata.OriginalSize))
	return photo, nil
}

func (s *InspectionService) Photo(ctx context.Context, id string) (*domain.Photo, error) {
	photo, err := s.store.GetPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo == nil {
		return nil, fmt.Errorf("photo %s: %w", id, domain.ErrNotFound)
	}
	return photo, nil
}

func (s *InspectionService) ListPhotos(ctx context.Context, itemID string) ([]*domain.Photo, error) {
	return s.store.ListPhotosByChecklistItem(ctx, itemID)
}

func (s *InspectionService) DeletePhoto(ctx context.Context, id string) error {
	photo, err := s.Photo(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeletePhoto(ctx, id); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	s.touchForItem(ctx, photo.ChecklistItemID)
	return nil
}

// AssessItemPhoto asks the configured assessor to grade the damage in a
// photo. The suggestion is returned, not saved.
func (s *InspectionService) AssessItemPhoto(ctx context.Context, photoID string) (*assess.Assessment, error) {
	if s.assessor == nil {
		return nil, ErrAssessUnavailable
	}
	photo, err := s.Photo(ctx, photoID)
	if err != nil {
		return nil, err
	}
	item, err := s.GetChecklistItem(ctx, photo.ChecklistItemID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("damage assessment started", "photo_id", photoID, "item", item.Item)
	result, err := s.assessor.Assess(ctx, bytes.NewReader(photo.Image), "image/jpeg", item.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to assess photo: %w", err)
	}
	s.logger.Info("damage assessment complete", "photo_id", photoID, "severity", result.Severity)
	return result, nil
}
