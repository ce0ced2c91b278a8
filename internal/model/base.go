// internal/model/base.go
//
// Base model tier: option-driven reads and hard-delete CRUD.
//
// Context
// -------
// A model binds a table name and a field schema to a *sqlx.DB.  Reads build
// "SELECT … WHERE 1=1" and let the option chain append predicates, search,
// and sort/pagination, in that fixed order; GetTotalItems composes the same
// predicates under COUNT(*) so totals and pages always agree for a given
// filter.  Writes filter payloads down to declared fields and perform no
// validation — callers validate first via ValidateData.
//
// Workflow
// --------
// App models embed a tier (Base, Soft, or Draft) and supply table + schema:
//
//	type Model struct{ *model.Draft }
//	func New(db *sqlx.DB) *Model {
//	    return &Model{model.NewDraft(db, "page", schema)}
//	}
//
// Notes
// -----
// • Placeholders are "?" throughout, valid for both supported drivers.
// • Oxford commas, two spaces after periods.

package model

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/query"
)

// frameworkColumns are storage-managed columns every table carries in
// addition to its declared fields.  They are legal sort/lookup targets but
// never writable through a payload.
var frameworkColumns = []string{"id", "created_at", "updated_at", "deleted_at", "is_draft"}

// Interface is the read/write surface controllers program against.
type Interface interface {
	Table() string
	Schema() Schema
	DefaultData() Record
	PostData(form url.Values, defaults Record) Record

	GetItems(ctx context.Context, opt query.Option) ([]Record, error)
	GetTotalItems(ctx context.Context, opt query.Option) (int, error)
	GetItemByID(ctx context.Context, id int64, opt query.Option) (Record, error)
	GetItemByField(ctx context.Context, field string, value any, opt query.Option) (Record, error)
	CreateItem(ctx context.Context, data Record) (int64, error)
	UpdateItem(ctx context.Context, id int64, data Record) error
	HardDelete(ctx context.Context, id int64) error
	ValidateData(ctx context.Context, data Record, isEdit bool, id int64) (ValidationErrors, error)
	IsUnique(ctx context.Context, field string, value any, excludeID int64) (bool, error)
}

// SoftInterface extends Interface with the soft-delete operations.
type SoftInterface interface {
	Interface
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

// Base is the hard-delete tier.
type Base struct {
	db     *sqlx.DB
	table  string
	schema Schema

	caps       query.Caps          // capabilities a supplied option must cover
	defaultOpt func() query.Option // tier default when the caller passes nil
}

// NewBase binds table and schema at the hard-delete tier.
func NewBase(db *sqlx.DB, table string, schema Schema) *Base {
	return &Base{
		db:         db,
		table:      table,
		schema:     schema,
		caps:       query.CapFilter,
		defaultOpt: func() query.Option { return query.NewBase() },
	}
}

// Table returns the bound table name.
func (m *Base) Table() string { return m.table }

// Schema returns the field-definition table.
func (m *Base) Schema() Schema { return m.schema }

// DB exposes the handle for tier extensions and maintenance tooling.
func (m *Base) DB() *sqlx.DB { return m.db }

// DefaultData returns one record populated with every field's default.
func (m *Base) DefaultData() Record {
	data := make(Record, len(m.schema))
	for _, f := range m.schema {
		data[f.Name] = f.Default
	}
	return data
}

// PostData populates a record from posted form values, falling back to the
// supplied defaults, then the schema defaults.  Used to round-trip form
// state across the redirect-after-post cycle.
func (m *Base) PostData(form url.Values, defaults Record) Record {
	data := make(Record, len(m.schema))
	for _, f := range m.schema {
		switch {
		case form != nil && form.Has(f.Name):
			data[f.Name] = form.Get(f.Name)
		case defaults != nil && defaults[f.Name] != nil:
			data[f.Name] = defaults[f.Name]
		default:
			data[f.Name] = f.Default
		}
	}
	return data
}

// columnAllowed reports whether name is a declared field or a
// framework-managed column.
func (m *Base) columnAllowed(name string) bool {
	if m.schema.Has(name) {
		return true
	}
	for _, c := range frameworkColumns {
		if c == name {
			return true
		}
	}
	return false
}

// option resolves the effective option: the tier default when nil,
// otherwise the caller's option after the capability-marker check and the
// sort-column guard.
func (m *Base) option(opt query.Option) (query.Option, error) {
	if opt == nil {
		return m.defaultOpt(), nil
	}
	// The table must understand every predicate the option can emit; an
	// option from a lower tier is fine, one from a higher tier is not.
	if !m.caps.Has(opt.Caps()) {
		return nil, fmt.Errorf("%w: table %s supports caps %b, option carries %b",
			ErrInvalidOption, m.table, m.caps, opt.Caps())
	}
	if s, ok := opt.(interface{ SortField() string }); ok {
		if f := s.SortField(); f != "" && !m.columnAllowed(f) {
			return nil, fmt.Errorf("%w: sort field %q on table %s", ErrInvalidField, f, m.table)
		}
	}
	return opt, nil
}

// GetItems returns the rows selected by opt as associative records.
func (m *Base) GetItems(ctx context.Context, opt query.Option) ([]Record, error) {
	opt, err := m.option(opt)
	if err != nil {
		return nil, err
	}

	b := query.NewBuilder("SELECT * FROM " + m.table + " WHERE 1=1")
	opt.ApplyToQuery(b)
	opt.ApplySearchTerm(b)
	opt.ApplyOrderAndLimit(b)

	rows, err := m.db.QueryxContext(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("get items from %s: %w", m.table, err)
	}
	defer rows.Close()

	var items []Record
	for rows.Next() {
		rec := Record{}
		if err := rows.MapScan(rec); err != nil {
			return nil, err
		}
		normalize(rec)
		items = append(items, rec)
	}
	return items, rows.Err()
}

// GetTotalItems counts the rows selected by opt, composing the exact same
// predicates as GetItems (sans sort/pagination) so pager totals stay
// consistent with item pages.
func (m *Base) GetTotalItems(ctx context.Context, opt query.Option) (int, error) {
	opt, err := m.option(opt)
	if err != nil {
		return 0, err
	}

	b := query.NewBuilder("SELECT COUNT(*) FROM " + m.table + " WHERE 1=1")
	opt.ApplyToQuery(b)
	opt.ApplySearchTerm(b)

	var total int
	if err := m.db.QueryRowxContext(ctx, b.SQL(), b.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count items in %s: %w", m.table, err)
	}
	return total, nil
}

// GetItemByID fetches one record by primary key.  An option can narrow
// visibility (hide trashed or drafted rows from the lookup).
func (m *Base) GetItemByID(ctx context.Context, id int64, opt query.Option) (Record, error) {
	return m.GetItemByField(ctx, "id", id, opt)
}

// GetItemByField fetches one record by an arbitrary declared column.  It
// returns (nil, nil) when no row matches, and ErrNotUnique when more than
// one does — a collision on a supposedly unique column is a consistency
// violation, never silently masked by returning the first row.
func (m *Base) GetItemByField(ctx context.Context, field string, value any, opt query.Option) (Record, error) {
	if !m.columnAllowed(field) {
		return nil, fmt.Errorf("%w: %q on table %s", ErrInvalidField, field, m.table)
	}
	if opt != nil {
		var err error
		if opt, err = m.option(opt); err != nil {
			return nil, err
		}
	}

	b := query.NewBuilder("SELECT * FROM " + m.table + " WHERE " + field + " = ?")
	b.Append("", value)
	if opt != nil {
		opt.ApplyToQuery(b)
	}

	rows, err := m.db.QueryxContext(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("get item from %s by %s: %w", m.table, field, err)
	}
	defer rows.Close()

	var matches []Record
	for rows.Next() {
		rec := Record{}
		if err := rows.MapScan(rec); err != nil {
			return nil, err
		}
		normalize(rec)
		matches = append(matches, rec)
		if len(matches) > 1 {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s = %v on table %s", ErrNotUnique, field, value, m.table)
	}
}

// CreateItem inserts a record and returns the new id.  Undeclared keys are
// dropped, not rejected.  No validation happens here; callers run
// ValidateData first.
func (m *Base) CreateItem(ctx context.Context, data Record) (int64, error) {
	cols, args := m.writable(data)
	if len(cols) == 0 {
		return 0, fmt.Errorf("create in %s: no declared fields in payload", m.table)
	}

	q := "INSERT INTO " + m.table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"

	res, err := m.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("create in %s: %w", m.table, err)
	}
	return res.LastInsertId()
}

// UpdateItem writes the declared fields of data and stamps updated_at.
func (m *Base) UpdateItem(ctx context.Context, id int64, data Record) error {
	return m.update(ctx, id, data, "")
}

// update is shared by the tiers; extraWhere lets the soft tier require
// deleted_at IS NULL so an update against a trashed row affects zero rows.
func (m *Base) update(ctx context.Context, id int64, data Record, extraWhere string) error {
	cols, args := m.writable(data)
	if len(cols) == 0 {
		return fmt.Errorf("update %s id=%d: no declared fields in payload", m.table, id)
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	q := "UPDATE " + m.table + " SET " + strings.Join(sets, ", ") +
		", updated_at = CURRENT_TIMESTAMP WHERE id = ?" + extraWhere
	args = append(args, id)

	if _, err := m.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update %s id=%d: %w", m.table, id, err)
	}
	return nil
}

// HardDelete removes the row unconditionally.
func (m *Base) HardDelete(ctx context.Context, id int64) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM "+m.table+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("hard delete %s id=%d: %w", m.table, id, err)
	}
	return nil
}

// IsUnique reports whether no other row carries value in field.  The field
// must be declared; interpolating an unchecked name would open SQL
// injection by field name.  excludeID > 0 skips that row (edit mode).
func (m *Base) IsUnique(ctx context.Context, field string, value any, excludeID int64) (bool, error) {
	if !m.schema.Has(field) {
		return false, fmt.Errorf("%w: %q on table %s", ErrInvalidField, field, m.table)
	}

	q := "SELECT COUNT(*) FROM " + m.table + " WHERE " + field + " = ?"
	args := []any{value}
	if excludeID > 0 {
		q += " AND id != ?"
		args = append(args, excludeID)
	}

	var count int
	if err := m.db.QueryRowxContext(ctx, q, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("unique check %s.%s: %w", m.table, field, err)
	}
	return count == 0, nil
}

// writable filters data down to declared fields, in schema order.
func (m *Base) writable(data Record) (cols []string, args []any) {
	for _, f := range m.schema {
		if v, ok := data[f.Name]; ok {
			cols = append(cols, f.Name)
			args = append(args, v)
		}
	}
	return cols, args
}

// normalize rewrites driver []byte values as strings so templates and JSON
// encoding see text, not base64.
func normalize(rec Record) {
	for k, v := range rec {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
		}
	}
}

// stringValue renders a record value the way validation sees it.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
