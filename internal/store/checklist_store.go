package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const checklistItemColumns = `id, room_id, category, item, description, is_checked, severity, notes`

func scanChecklistItem(sc scanner) (*domain.ChecklistItem, error) {
	it := &domain.ChecklistItem{}
	if err := sc.Scan(&it.ID, &it.RoomID, &it.Category, &it.Item, &it.Description,
		&it.IsChecked, &it.Severity, &it.Notes); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Store) CreateChecklistItem(ctx context.Context, it domain.ChecklistItem) (*domain.ChecklistItem, error) {
	if !it.Severity.Valid() {
		return nil, fmt.Errorf("severity %q: %w", it.Severity, domain.ErrValidation)
	}
	it.ID = newID()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (`+checklistItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.RoomID, it.Category, it.Item, it.Description, it.IsChecked, it.Severity, it.Notes)
	if err != nil {
		return nil, wrapErr("create checklist item", err)
	}
	return &it, nil
}

// CreateChecklistItems inserts a batch in one transaction; either all items
// are stored or none.
func (s *Store) CreateChecklistItems(ctx context.Context, items []domain.ChecklistItem) ([]*domain.ChecklistItem, error) {
	created := make([]*domain.ChecklistItem, 0, len(items))
	err := s.withTx(ctx, func(q querier) error {
		for _, it := range items {
			if !it.Severity.Valid() {
				return fmt.Errorf("severity %q: %w", it.Severity, domain.ErrValidation)
			}
			it.ID = newID()
			_, err := q.ExecContext(ctx, `
				INSERT INTO checklist_items (`+checklistItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, it.ID, it.RoomID, it.Category, it.Item, it.Description, it.IsChecked, it.Severity, it.Notes)
			if err != nil {
				return wrapErr("create checklist item", err)
			}
			created = append(created, &it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) GetChecklistItem(ctx context.Context, id string) (*domain.ChecklistItem, error) {
	return getChecklistItem(ctx, s.db, id)
}

func getChecklistItem(ctx context.Context, q querier, id string) (*domain.ChecklistItem, error) {
	it, err := scanChecklistItem(q.QueryRowContext(ctx, `
		SELECT `+checklistItemColumns+` FROM checklist_items WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}
	return it, nil
}

// UpdateChecklistItem merges patch. Severity and isChecked are independent.
func (s *Store) UpdateChecklistItem(ctx context.Context, id string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	var updated *domain.ChecklistItem
	err := s.withTx(ctx, func(q querier) error {
		it, err := getChecklistItem(ctx, q, id)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("checklist item %s: %w", id, domain.ErrNotFound)
		}
		patch.Apply(it)
		if !it.Severity.Valid() {
			return fmt.Errorf("severity %q: %w", it.Severity, domain.ErrValidation)
		}

		_, err = q.ExecContext(ctx, `
			UPDATE checklist_items SET category = ?, item = ?, description = ?, is_checked = ?, severity = ?, notes = ?
			WHERE id = ?
		`, it.Category, it.Item, it.Description, it.IsChecked, it.Severity, it.Notes, id)
		if err != nil {
			return wrapErr("update checklist item", err)
		}
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteChecklistItem removes only the item row.
func (s *Store) DeleteChecklistItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM checklist_items WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete checklist item", err)
	}
	return expectOne(result, "checklist item "+id)
}

func (s *Store) ListChecklistItemsByRoom(ctx context.Context, roomID string) ([]*domain.ChecklistItem, error) {
	return listChecklistItemsByRoom(ctx, s.db, roomID)
}

func listChecklistItemsByRoom(ctx context.Context, q querier, roomID string) ([]*domain.ChecklistItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+checklistItemColumns+` FROM checklist_items WHERE room_id = ? ORDER BY rowid
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	return collect(rows, scanChecklistItem, "checklist item")
}
