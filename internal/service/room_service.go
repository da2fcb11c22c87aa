package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbonduro/depositdefender/internal/checklist"
	"github.com/vbonduro/depositdefender/internal/domain"
)

type AddRoomRequest struct {
	Type  domain.RoomType `json:"type"`
	Name  string          `json:"name"`
	Notes string          `json:"notes"`
	// RequiredOnly instantiates just the required checklist entries.
	RequiredOnly bool `json:"requiredOnly"`
}

// AddRoom creates a room with its checklist instantiated from the template
// catalog. Adding the first room moves a draft inspection to in-progress.
func (s *InspectionService) AddRoom(ctx context.Context, inspectionID string, req AddRoomRequest) (*domain.Room, []*domain.ChecklistItem, error) {
	if !req.Type.Valid() {
		return nil, nil, fmt.Errorf("unknown room type %q: %w", req.Type, domain.ErrValidation)
	}
	in, err := s.GetInspection(ctx, inspectionID)
	if err != nil {
		return nil, nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = checklist.DisplayName(req.Type)
	}
	room, err := s.store.CreateRoom(ctx, domain.Room{InspectionID: inspectionID, Type: req.Type, Name: name, Notes: req.Notes})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create room: %w", err)
	}

	items, err := s.store.CreateChecklistItems(ctx, checklist.Items(req.Type, room.ID, req.RequiredOnly))
	if err != nil {
		if derr := s.store.DeleteRoom(ctx, room.ID); derr != nil {
			s.logger.Error("failed to roll back room after checklist error", "room_id", room.ID, "error", derr)
		}
		return nil, nil, fmt.Errorf("failed to create checklist: %w", err)
	}

	if in.Status == domain.StatusDraft {
		status := domain.StatusInProgress
		if _, err := s.store.UpdateInspection(ctx, inspectionID, domain.InspectionPatch{Status: &status}); err != nil {
			return nil, nil, fmt.Errorf("failed to start inspection: %w", err)
		}
	} else {
		s.touch(ctx, inspectionID)
	}

	s.logger.Info("room added", "inspection_id", inspectionID, "room_id", room.ID, "type", req.Type, "items", len(items))
	return room, items, nil
}

func (s *InspectionService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
	}
	return room, nil
}

func (s *InspectionService) ListRooms(ctx context.Context, inspectionID string) ([]*domain.Room, error) {
	return s.store.ListRoomsByInspection(ctx, inspectionID)
}

func (s *InspectionService) UpdateRoom(ctx context.Context, id string, patch domain.RoomPatch) (*domain.Room, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, fmt.Errorf("unknown room type %q: %w", *patch.Type, domain.ErrValidation)
	}
	room, err := s.store.UpdateRoom(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	s.touch(ctx, room.InspectionID)
	return room, nil
}

func (s *InspectionService) CompleteRoom(ctx context.Context, id string) (*domain.Room, error) {
	done := true
	return s.UpdateRoom(ctx, id, domain.RoomPatch{IsCompleted: &done})
}

// DeleteRoom removes the room with its checklist items and photos.
func (s *InspectionService) DeleteRoom(ctx context.Context, id string) error {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRoomWithContents(ctx, id); err != nil {
		return err
	}
	s.touch(ctx, room.InspectionID)
	s.logger.Info("room deleted", "inspection_id", room.InspectionID, "room_id", id)
	return nil
}

func (s *InspectionService) ListChecklistItems(ctx context.Context, roomID string) ([]*domain.ChecklistItem, error) {
	return s.store.ListChecklistItemsByRoom(ctx, roomID)
}

func (s *InspectionService) GetChecklistItem(ctx context.Context, id string) (*domain.ChecklistItem, error) {
	item, err := s.store.GetChecklistItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("checklist item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

func (s *InspectionService) UpdateChecklistItem(ctx context.Context, id string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	if patch.Severity != nil && !patch.Severity.Valid() {
		return nil, fmt.Errorf("unknown severity %q: %w", *patch.Severity, domain.ErrValidation)
	}
	item, err := s.store.UpdateChecklistItem(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}
	s.touchForRoom(ctx, item.RoomID)
	return item, nil
}

func (s *InspectionService) touchForRoom(ctx context.Context, roomID string) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil || room == nil {
		s.logger.Error("failed to resolve room for touch", "room_id", roomID, "error", err)
		return
	}
	s.touch(ctx, room.InspectionID)
}

func (s *InspectionService) touchForItem(ctx context.Context, itemID string) {
	item, err := s.store.GetChecklistItem(ctx, itemID)
	if err != nil || item == nil {
		s.logger.Error("failed to resolve checklist item for touch", "item_id", itemID, "error", err)
		return
	}
	s.touchForRoom(ctx, item.RoomID)
}
