package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const shareLinkColumns = `token, inspection_id, expires_at, access_count, max_access`

func scanShareLink(sc scanner) (*domain.ShareableLink, error) {
	l := &domain.ShareableLink{}
	var expires int64
	if err := sc.Scan(&l.Token, &l.InspectionID, &expires, &l.AccessCount, &l.MaxAccess); err != nil {
		return nil, err
	}
	l.ExpiresAt = fromNanos(expires)
	return l, nil
}

func validateShareLink(l *domain.ShareableLink) error {
	if l.MaxAccess < 0 || l.AccessCount < 0 || l.AccessCount > l.MaxAccess {
		return fmt.Errorf("access count %d of %d: %w", l.AccessCount, l.MaxAccess, domain.ErrValidation)
	}
	return nil
}

// CreateShareLink stores l keyed by its token. An empty token is replaced by
// a freshly generated one.
func (s *Store) CreateShareLink(ctx context.Context, l domain.ShareableLink) (*domain.ShareableLink, error) {
	if l.Token == "" {
		l.Token = newID()
	}
	if err := validateShareLink(&l); err != nil {
		return nil, err
	}
	l.ExpiresAt = l.ExpiresAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO share_links (`+shareLinkColumns+`) VALUES (?, ?, ?, ?, ?)
	`, l.Token, l.InspectionID, toNanos(l.ExpiresAt), l.AccessCount, l.MaxAccess)
	if err != nil {
		return nil, wrapErr("create share link", err)
	}
	return &l, nil
}

func (s *Store) GetShareLink(ctx context.Context, token string) (*domain.ShareableLink, error) {
	return getShareLink(ctx, s.db, token)
}

func getShareLink(ctx context.Context, q querier, token string) (*domain.ShareableLink, error) {
	l, err := scanShareLink(q.QueryRowContext(ctx, `
		SELECT `+shareLinkColumns+` FROM share_links WHERE token = ?
	`, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}
	return l, nil
}

func (s *Store) UpdateShareLink(ctx context.Context, token string, patch domain.ShareLinkPatch) (*domain.ShareableLink, error) {
	var updated *domain.ShareableLink
	err := s.withTx(ctx, func(q querier) error {
		l, err := getShareLink(ctx, q, token)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("share link %s: %w", token, domain.ErrNotFound)
		}
		patch.Apply(l)
		if err := validateShareLink(l); err != nil {
			return err
		}
		l.ExpiresAt = l.ExpiresAt.UTC()

		_, err = q.ExecContext(ctx, `
			UPDATE share_links SET expires_at = ?, access_count = ?, max_access = ? WHERE token = ?
		`, toNanos(l.ExpiresAt), l.AccessCount, l.MaxAccess, token)
		if err != nil {
			return wrapErr("update share link", err)
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteShareLink(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM share_links WHERE token = ?`, token)
	if err != nil {
		return wrapErr("delete share link", err)
	}
	return expectOne(result, "share link "+token)
}

func (s *Store) ListShareLinksByInspection(ctx context.Context, inspectionID string) ([]*domain.ShareableLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shareLinkColumns+` FROM share_links WHERE inspection_id = ? ORDER BY rowid
	`, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list share links: %w", err)
	}
	return collect(rows, scanShareLink, "share link")
}

// RecordShareAccess counts one access against the link if it is still usable
// at now. The check and the increment are a single statement, so a link can
// never be opened more than maxAccess times.
func (s *Store) RecordShareAccess(ctx context.Context, token string, now time.Time) (*domain.ShareableLink, error) {
	var link *domain.ShareableLink
	err := s.withTx(ctx, func(q querier) error {
		result, err := q.ExecContext(ctx, `
			UPDATE share_links SET access_count = access_count + 1
			WHERE token = ? AND expires_at > ? AND access_count < max_access
		`, token, toNanos(now))
		if err != nil {
			return wrapErr("record share access", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		l, err := getShareLink(ctx, q, token)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("share link %s: %w", token, domain.ErrNotFound)
		}
		if n == 0 {
			return fmt.Errorf("share link %s: %w", token, domain.ErrLinkInvalid)
		}
		link = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}
