package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const roomColumns = `id, inspection_id, type, name, is_completed, completed_at, notes`

func scanRoom(sc scanner) (*domain.Room, error) {
	r := &domain.Room{}
	var completed sql.NullInt64
	if err := sc.Scan(&r.ID, &r.InspectionID, &r.Type, &r.Name, &r.IsCompleted, &completed, &r.Notes); err != nil {
		return nil, err
	}
	r.CompletedAt = fromNullNanos(completed)
	return r, nil
}

// CreateRoom stores r under a new id. The inspection id is not checked. A
// room created as completed is stamped with completedAt.
func (s *Store) CreateRoom(ctx context.Context, r domain.Room) (*domain.Room, error) {
	if !r.Type.Valid() {
		return nil, fmt.Errorf("room type %q: %w", r.Type, domain.ErrValidation)
	}
	r.ID = newID()
	r.CompletedAt = nil
	if r.IsCompleted {
		now := s.stamp()
		r.CompletedAt = &now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (`+roomColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.InspectionID, r.Type, r.Name, r.IsCompleted, nullNanos(r.CompletedAt), r.Notes)
	if err != nil {
		return nil, wrapErr("create room", err)
	}
	return &r, nil
}

func (s *Store) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return getRoom(ctx, s.db, id)
}

func getRoom(ctx context.Context, q querier, id string) (*domain.Room, error) {
	r, err := scanRoom(q.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return r, nil
}

// UpdateRoom merges patch. completedAt is stamped only when isCompleted goes
// from false to true and cleared when it goes back to false.
func (s *Store) UpdateRoom(ctx context.Context, id string, patch domain.RoomPatch) (*domain.Room, error) {
	var updated *domain.Room
	err := s.withTx(ctx, func(q querier) error {
		r, err := getRoom(ctx, q, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
		}
		wasCompleted := r.IsCompleted
		patch.Apply(r)
		if !r.Type.Valid() {
			return fmt.Errorf("room type %q: %w", r.Type, domain.ErrValidation)
		}
		switch {
		case r.IsCompleted && !wasCompleted:
			now := s.stamp()
			r.CompletedAt = &now
		case !r.IsCompleted:
			r.CompletedAt = nil
		}

		_, err = q.ExecContext(ctx, `
			UPDATE rooms SET type = ?, name = ?, is_completed = ?, completed_at = ?, notes = ? WHERE id = ?
		`, r.Type, r.Name, r.IsCompleted, nullNanos(r.CompletedAt), r.Notes, id)
		if err != nil {
			return wrapErr("update room", err)
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRoom removes only the room row.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete room", err)
	}
	return expectOne(result, "room "+id)
}

// DeleteRoomWithContents removes the room, its checklist items and their
// photos in one transaction. Failures wrap domain.ErrPartialCascade.
func (s *Store) DeleteRoomWithContents(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(q querier) error {
		room, err := getRoom(ctx, q, id)
		if err != nil {
			return err
		}
		if room == nil {
			return fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
		}

		steps := []struct {
			what  string
			query string
		}{
			{"photos", `DELETE FROM photos WHERE checklist_item_id IN (SELECT id FROM checklist_items WHERE room_id = ?)`},
			{"checklist items", `DELETE FROM checklist_items WHERE room_id = ?`},
			{"room", `DELETE FROM rooms WHERE id = ?`},
		}
		for _, step := range steps {
			if _, err := q.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrPartialCascade, wrapErr("delete "+step.what, err))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListRoomsByInspection(ctx context.Context, inspectionID string) ([]*domain.Room, error) {
	return listRoomsByInspection(ctx, s.db, inspectionID)
}

func listRoomsByInspection(ctx context.Context, q querier, inspectionID string) ([]*domain.Room, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE inspection_id = ? ORDER BY rowid
	`, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return collect(rows, scanRoom, "room")
}
