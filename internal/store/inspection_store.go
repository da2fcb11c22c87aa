package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const inspectionColumns = `id, property_id, title, status, created_at, updated_at, completed_at`

func scanInspection(sc scanner) (*domain.Inspection, error) {
	in := &domain.Inspection{}
	var created, updated int64
	var completed sql.NullInt64
	if err := sc.Scan(&in.ID, &in.PropertyID, &in.Title, &in.Status, &created, &updated, &completed); err != nil {
		return nil, err
	}
	in.CreatedAt = fromNanos(created)
	in.UpdatedAt = fromNanos(updated)
	in.CompletedAt = fromNullNanos(completed)
	return in, nil
}

// CreateInspection stores in under a new id. The property id is not checked.
// An empty status defaults to draft.
func (s *Store) CreateInspection(ctx context.Context, in domain.Inspection) (*domain.Inspection, error) {
	if in.Status == "" {
		in.Status = domain.StatusDraft
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("inspection status %q: %w", in.Status, domain.ErrValidation)
	}
	in.ID = newID()
	s.stampCreate(&in.CreatedAt, &in.UpdatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inspections (`+inspectionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.ID, in.PropertyID, in.Title, in.Status, toNanos(in.CreatedAt), toNanos(in.UpdatedAt), nullNanos(in.CompletedAt))
	if err != nil {
		return nil, wrapErr("create inspection", err)
	}
	return &in, nil
}

func (s *Store) GetInspection(ctx context.Context, id string) (*domain.Inspection, error) {
	return getInspection(ctx, s.db, id)
}

func getInspection(ctx context.Context, q querier, id string) (*domain.Inspection, error) {
	in, err := scanInspection(q.QueryRowContext(ctx, `
		SELECT `+inspectionColumns+` FROM inspections WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	return in, nil
}

// UpdateInspection merges patch and advances updatedAt. Moving into the
// completed status stamps completedAt; moving out of it clears completedAt.
func (s *Store) UpdateInspection(ctx context.Context, id string, patch domain.InspectionPatch) (*domain.Inspection, error) {
	var updated *domain.Inspection
	err := s.withTx(ctx, func(q querier) error {
		in, err := getInspection(ctx, q, id)
		if err != nil {
			return err
		}
		if in == nil {
			return fmt.Errorf("inspection %s: %w", id, domain.ErrNotFound)
		}
		wasCompleted := in.Status == domain.StatusCompleted
		patch.Apply(in)
		if !in.Status.Valid() {
			return fmt.Errorf("inspection status %q: %w", in.Status, domain.ErrValidation)
		}
		now := s.stampUpdate(&in.UpdatedAt)
		switch {
		case in.Status == domain.StatusCompleted && !wasCompleted:
			in.CompletedAt = &now
		case in.Status != domain.StatusCompleted:
			in.CompletedAt = nil
		}

		_, err = q.ExecContext(ctx, `
			UPDATE inspections SET property_id = ?, title = ?, status = ?, updated_at = ?, completed_at = ?
			WHERE id = ?
		`, in.PropertyID, in.Title, in.Status, toNanos(in.UpdatedAt), nullNanos(in.CompletedAt), id)
		if err != nil {
			return wrapErr("update inspection", err)
		}
		updated = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TouchInspection advances updatedAt without other changes. Callers use it
// to record mutations of rooms, items and photos on the owning inspection.
func (s *Store) TouchInspection(ctx context.Context, id string) error {
	return s.withTx(ctx, func(q querier) error {
		in, err := getInspection(ctx, q, id)
		if err != nil {
			return err
		}
		if in == nil {
			return fmt.Errorf("inspection %s: %w", id, domain.ErrNotFound)
		}
		s.stampUpdate(&in.UpdatedAt)
		if _, err := q.ExecContext(ctx, `UPDATE inspections SET updated_at = ? WHERE id = ?`, toNanos(in.UpdatedAt), id); err != nil {
			return wrapErr("touch inspection", err)
		}
		return nil
	})
}

func (s *Store) ListInspectionsByProperty(ctx context.Context, propertyID string) ([]*domain.Inspection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inspectionColumns+` FROM inspections WHERE property_id = ?
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return collect(rows, scanInspection, "inspection")
}

// DeleteInspection removes the inspection together with its rooms, their
// checklist items and photos, and every report and share link keyed to it,
// in a single transaction. On failure nothing is removed and the error wraps
// domain.ErrPartialCascade.
func (s *Store) DeleteInspection(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(q querier) error {
		in, err := getInspection(ctx, q, id)
		if err != nil {
			return err
		}
		if in == nil {
			return fmt.Errorf("inspection %s: %w", id, domain.ErrNotFound)
		}

		steps := []struct {
			what  string
			query string
		}{
			{"photos", `DELETE FROM photos WHERE checklist_item_id IN (
				SELECT ci.id FROM checklist_items ci JOIN rooms r ON r.id = ci.room_id WHERE r.inspection_id = ?)`},
			{"checklist items", `DELETE FROM checklist_items WHERE room_id IN (
				SELECT id FROM rooms WHERE inspection_id = ?)`},
			{"rooms", `DELETE FROM rooms WHERE inspection_id = ?`},
			{"reports", `DELETE FROM reports WHERE inspection_id = ?`},
			{"share links", `DELETE FROM share_links WHERE inspection_id = ?`},
			{"inspection", `DELETE FROM inspections WHERE id = ?`},
		}
		for _, step := range steps {
			if _, err := q.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrPartialCascade, wrapErr("delete "+step.what, err))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete inspection %s: %w", id, err)
	}
	return nil
}
