package store

import (
	"context"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

// GetInspectionWithDetails assembles the inspection, its property and every
// room with its items and their photos from one consistent snapshot. It
// returns (nil, nil) when the inspection does not exist. Property is nil when
// the inspection points at a property that is gone.
func (s *Store) GetInspectionWithDetails(ctx context.Context, inspectionID string) (*domain.InspectionDetails, error) {
	var details *domain.InspectionDetails
	err := s.withTx(ctx, func(q querier) error {
		in, err := getInspection(ctx, q, inspectionID)
		if err != nil || in == nil {
			return err
		}
		prop, err := getProperty(ctx, q, in.PropertyID)
		if err != nil {
			return err
		}
		rooms, err := listRoomsByInspection(ctx, q, inspectionID)
		if err != nil {
			return err
		}

		d := &domain.InspectionDetails{
			Inspection: in,
			Property:   prop,
			Rooms:      make([]*domain.RoomDetails, 0, len(rooms)),
		}
		for _, room := range rooms {
			items, err := listChecklistItemsByRoom(ctx, q, room.ID)
			if err != nil {
				return err
			}
			rd := &domain.RoomDetails{Room: room, Items: make([]*domain.ItemDetails, 0, len(items))}
			for _, item := range items {
				photos, err := listPhotosByChecklistItem(ctx, q, item.ID)
				if err != nil {
					return err
				}
				rd.Items = append(rd.Items, &domain.ItemDetails{ChecklistItem: item, Photos: photos})
			}
			d.Rooms = append(d.Rooms, rd)
		}
		details = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection details: %w", err)
	}
	return details, nil
}

// GetInspectionProgress counts completed rooms and checked items. An unknown
// inspection yields all zeros.
func (s *Store) GetInspectionProgress(ctx context.Context, inspectionID string) (domain.InspectionProgress, error) {
	var completedRooms, totalRooms, completedItems, totalItems int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_completed), 0) FROM rooms WHERE inspection_id = ?
	`, inspectionID).Scan(&totalRooms, &completedRooms)
	if err != nil {
		return domain.InspectionProgress{}, fmt.Errorf("failed to count rooms: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(ci.is_checked), 0)
		FROM checklist_items ci JOIN rooms r ON r.id = ci.room_id
		WHERE r.inspection_id = ?
	`, inspectionID).Scan(&totalItems, &completedItems)
	if err != nil {
		return domain.InspectionProgress{}, fmt.Errorf("failed to count checklist items: %w", err)
	}

	return domain.NewInspectionProgress(completedRooms, totalRooms, completedItems, totalItems), nil
}

// GetStorageStats reports record counts and the bytes held by photo images and
// report documents.
func (s *Store) GetStorageStats(ctx context.Context) (domain.StorageStats, error) {
	var st domain.StorageStats
	var photoBytes, reportBytes int64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM inspections),
			(SELECT COUNT(*) FROM photos),
			(SELECT COUNT(*) FROM reports),
			(SELECT COALESCE(SUM(LENGTH(image)), 0) FROM photos),
			(SELECT COALESCE(SUM(LENGTH(data)), 0) FROM reports)
	`).Scan(&st.Properties, &st.Inspections, &st.Photos, &st.Reports, &photoBytes, &reportBytes)
	if err != nil {
		return domain.StorageStats{}, fmt.Errorf("failed to get storage stats: %w", err)
	}
	st.TotalStorageBytes = photoBytes + reportBytes
	st.TotalStorageMB = domain.BytesToMB(st.TotalStorageBytes)
	return st, nil
}

// ClearAllData empties every table in one transaction.
func (s *Store) ClearAllData(ctx context.Context) error {
	return s.withTx(ctx, func(q querier) error {
		for _, table := range []string{"photos", "checklist_items", "rooms", "reports", "share_links", "inspections", "properties"} {
			if _, err := q.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return wrapErr("clear "+table, err)
			}
		}
		return nil
	})
}
