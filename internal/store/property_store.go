package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const propertyColumns = `id, address, unit, landlord_name, landlord_contact, tenant_name, tenant_contact,
	lease_start_date, lease_end_date, move_out_date, created_at, updated_at`

func scanProperty(sc scanner) (*domain.Property, error) {
	p := &domain.Property{}
	var leaseStart, leaseEnd, moveOut, created, updated int64
	if err := sc.Scan(&p.ID, &p.Address, &p.Unit, &p.LandlordName, &p.LandlordContact,
		&p.TenantName, &p.TenantContact, &leaseStart, &leaseEnd, &moveOut, &created, &updated); err != nil {
		return nil, err
	}
	p.LeaseStartDate = fromNanos(leaseStart)
	p.LeaseEndDate = fromNanos(leaseEnd)
	p.MoveOutDate = fromNanos(moveOut)
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return p, nil
}

func normalizeDates(p *domain.Property) {
	p.LeaseStartDate = utc(p.LeaseStartDate)
	p.LeaseEndDate = utc(p.LeaseEndDate)
	p.MoveOutDate = utc(p.MoveOutDate)
}

// CreateProperty stores p under a new id with createdAt == updatedAt == now.
// Caller-supplied id and timestamps are ignored.
func (s *Store) CreateProperty(ctx context.Context, p domain.Property) (*domain.Property, error) {
	if p.MoveOutDate.IsZero() {
		return nil, fmt.Errorf("move-out date is required: %w", domain.ErrValidation)
	}
	p.ID = newID()
	normalizeDates(&p)
	s.stampCreate(&p.CreatedAt, &p.UpdatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Address, p.Unit, p.LandlordName, p.LandlordContact, p.TenantName, p.TenantContact,
		toNanos(p.LeaseStartDate), toNanos(p.LeaseEndDate), toNanos(p.MoveOutDate),
		toNanos(p.CreatedAt), toNanos(p.UpdatedAt))
	if err != nil {
		return nil, wrapErr("create property", err)
	}
	return &p, nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	return getProperty(ctx, s.db, id)
}

func getProperty(ctx context.Context, q querier, id string) (*domain.Property, error) {
	p, err := scanProperty(q.QueryRowContext(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// UpdateProperty merges patch into the stored property and advances
// updatedAt.
func (s *Store) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	var updated *domain.Property
	err := s.withTx(ctx, func(q querier) error {
		p, err := getProperty(ctx, q, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
		}
		patch.Apply(p)
		if p.MoveOutDate.IsZero() {
			return fmt.Errorf("move-out date is required: %w", domain.ErrValidation)
		}
		normalizeDates(p)
		s.stampUpdate(&p.UpdatedAt)

		_, err = q.ExecContext(ctx, `
			UPDATE properties SET address = ?, unit = ?, landlord_name = ?, landlord_contact = ?,
				tenant_name = ?, tenant_contact = ?, lease_start_date = ?, lease_end_date = ?,
				move_out_date = ?, updated_at = ?
			WHERE id = ?
		`, p.Address, p.Unit, p.LandlordName, p.LandlordContact, p.TenantName, p.TenantContact,
			toNanos(p.LeaseStartDate), toNanos(p.LeaseEndDate), toNanos(p.MoveOutDate),
			toNanos(p.UpdatedAt), id)
		if err != nil {
			return wrapErr("update property", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProperty removes the property row only; its inspections are left in
// place.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete property", err)
	}
	return expectOne(result, "property "+id)
}

// ListPropertiesByCreation returns every property, most recently created
// first.
func (s *Store) ListPropertiesByCreation(ctx context.Context) ([]*domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return collect(rows, scanProperty, "property")
}
