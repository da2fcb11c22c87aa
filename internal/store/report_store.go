package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const reportColumns = `id, inspection_id, filename, data, generated_at, share_token`

func scanReport(sc scanner) (*domain.Report, error) {
	r := &domain.Report{}
	var generated int64
	if err := sc.Scan(&r.ID, &r.InspectionID, &r.Filename, &r.Data, &generated, &r.ShareToken); err != nil {
		return nil, err
	}
	r.GeneratedAt = fromNanos(generated)
	return r, nil
}

// CreateReport stores r under a new id. A zero GeneratedAt is set to now.
func (s *Store) CreateReport(ctx context.Context, r domain.Report) (*domain.Report, error) {
	if r.Filename == "" {
		return nil, fmt.Errorf("report filename is required: %w", domain.ErrValidation)
	}
	r.ID = newID()
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = s.stamp()
	}
	r.GeneratedAt = r.GeneratedAt.UTC()
	if r.Data == nil {
		r.Data = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.InspectionID, r.Filename, r.Data, toNanos(r.GeneratedAt), r.ShareToken)
	if err != nil {
		return nil, wrapErr("create report", err)
	}
	return &r, nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	return getReport(ctx, s.db, id)
}

func getReport(ctx context.Context, q querier, id string) (*domain.Report, error) {
	r, err := scanReport(q.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r, nil
}

func (s *Store) UpdateReport(ctx context.Context, id string, patch domain.ReportPatch) (*domain.Report, error) {
	var updated *domain.Report
	err := s.withTx(ctx, func(q querier) error {
		r, err := getReport(ctx, q, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
		}
		patch.Apply(r)
		if r.Filename == "" {
			return fmt.Errorf("report filename is required: %w", domain.ErrValidation)
		}

		_, err = q.ExecContext(ctx, `UPDATE reports SET filename = ?, share_token = ? WHERE id = ?`,
			r.Filename, r.ShareToken, id)
		if err != nil {
			return wrapErr("update report", err)
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete report", err)
	}
	return expectOne(result, "report "+id)
}

// ListReportsByInspection returns reports newest first.
func (s *Store) ListReportsByInspection(ctx context.Context, inspectionID string) ([]*domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports WHERE inspection_id = ? ORDER BY generated_at DESC, rowid DESC
	`, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return collect(rows, scanReport, "report")
}
