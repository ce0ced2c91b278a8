// internal/model/soft.go
//
// Soft-delete model tier.
//
// Rows are never removed by the public admin flows; deleting stamps
// deleted_at and restoring clears it.  Both operations are idempotent.
// UpdateItem at this tier requires deleted_at IS NULL, so an update aimed
// at a trashed record silently affects zero rows — that is intentional,
// not an error.

package model

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/query"
)

// Soft is the soft-delete tier.
type Soft struct {
	Base
}

// NewSoft binds table and schema at the soft-delete tier.
func NewSoft(db *sqlx.DB, table string, schema Schema) *Soft {
	m := &Soft{Base: *NewBase(db, table, schema)}
	m.caps = query.CapFilter | query.CapTrashed
	m.defaultOpt = func() query.Option { return query.NewSoft() }
	return m
}

// SoftDelete stamps deleted_at.  Trashing an already-trashed row succeeds
// trivially.
func (m *Soft) SoftDelete(ctx context.Context, id int64) error {
	q := "UPDATE " + m.table + " SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := m.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("soft delete %s id=%d: %w", m.table, id, err)
	}
	return nil
}

// Restore clears deleted_at.  Restoring a live row succeeds trivially.
func (m *Soft) Restore(ctx context.Context, id int64) error {
	q := "UPDATE " + m.table + " SET deleted_at = NULL WHERE id = ?"
	if _, err := m.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("restore %s id=%d: %w", m.table, id, err)
	}
	return nil
}

// UpdateItem writes declared fields, stamps updated_at, and refuses trashed
// targets via the extra WHERE guard.
func (m *Soft) UpdateItem(ctx context.Context, id int64, data Record) error {
	return m.update(ctx, id, data, " AND deleted_at IS NULL")
}
