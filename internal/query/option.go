// internal/query/option.go
//
// Composable query-condition builder (base tier).
//
// Context
// -------
// Every model read path funnels through an Option: a mutable, per-request
// builder that appends WHERE predicates, a free-text search clause, and the
// trailing ORDER BY / LIMIT to a SQL statement under construction.  Higher
// tiers (soft-delete, draft) embed the base tier and append their own
// predicate after calling the embedded ApplyToQuery, so augmentation always
// runs base → soft → draft.
//
// Workflow
// --------
//  1. Controller constructs a tier-appropriate option and sets flags.
//  2. Model hands the option a *Builder seeded with "SELECT … WHERE 1=1".
//  3. ApplyToQuery, ApplySearchTerm, then ApplyOrderAndLimit append text and
//     bind arguments in that fixed order; ORDER/LIMIT must trail all WHERE
//     augmentation.
//
// Options are built per request and discarded after use; reuse across
// requests is forbidden.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package query

import "strings"

// Caps is a capability bitmask.  Models declare which capabilities they
// require and fail fast when handed an option from an incompatible tier.
type Caps uint8

const (
	// CapFilter covers sort, pagination, and free-text search.
	CapFilter Caps = 1 << iota
	// CapTrashed marks soft-delete awareness (deleted_at predicates).
	CapTrashed
	// CapDraft marks draft awareness (is_draft predicates).
	CapDraft
)

// Has reports whether c contains every capability in want.
func (c Caps) Has(want Caps) bool { return c&want == want }

// Option is the contract every tier satisfies.  ApplySearchTerm and
// ApplyOrderAndLimit live at the base tier only; tiers above contribute
// through ApplyToQuery.
type Option interface {
	Caps() Caps
	ApplyToQuery(b *Builder)
	ApplySearchTerm(b *Builder)
	ApplyOrderAndLimit(b *Builder)
}

// Builder accumulates SQL text and positional bind arguments for one
// statement.  Fragments are appended verbatim, so callers own spacing.
type Builder struct {
	sql  strings.Builder
	args []any
}

// NewBuilder seeds a builder with the base statement, conventionally ending
// in "WHERE 1=1" so every contributor can append " AND …".
func NewBuilder(base string) *Builder {
	b := &Builder{}
	b.sql.WriteString(base)
	return b
}

// Append adds a SQL fragment and its bind arguments.
func (b *Builder) Append(fragment string, args ...any) {
	b.sql.WriteString(fragment)
	b.args = append(b.args, args...)
}

// SQL returns the statement text assembled so far.
func (b *Builder) SQL() string { return b.sql.String() }

// Args returns the bind arguments in append order.
func (b *Builder) Args() []any { return b.args }

// searchColumns is the fixed free-text column set the search term ORs over.
var searchColumns = []string{"title", "content"}

// BaseOption carries sort, pagination, and search state.  The zero value via
// NewBase means "no filtering at all".
type BaseOption struct {
	sortField  string
	sortDir    string
	offset     int
	limit      int
	paginated  bool
	searchTerm string
}

// NewBase returns an empty base-tier option.
func NewBase() *BaseOption { return &BaseOption{} }

// SetSort records the ORDER BY field and direction.  Direction is normalized
// to upper case; anything other than DESC becomes ASC.
func (o *BaseOption) SetSort(field, dir string) {
	o.sortField = field
	dir = strings.ToUpper(dir)
	if dir != "DESC" {
		dir = "ASC"
	}
	o.sortDir = dir
}

// SetPagination records the LIMIT/OFFSET pair.
func (o *BaseOption) SetPagination(offset, limit int) {
	o.offset = offset
	o.limit = limit
	o.paginated = true
}

// SetSearchTerm records the free-text search term.  Empty clears it.
func (o *BaseOption) SetSearchTerm(term string) { o.searchTerm = term }

// SortField exposes the sort column so models can verify it against their
// declared fields before any SQL is assembled.
func (o *BaseOption) SortField() string { return o.sortField }

// Caps reports the base capability set.
func (o *BaseOption) Caps() Caps { return CapFilter }

// ApplyToQuery contributes nothing at the base tier; it exists so higher
// tiers have a parent to call first.
func (o *BaseOption) ApplyToQuery(_ *Builder) {}

// ApplySearchTerm ORs a LIKE match across the fixed free-text columns.
func (o *BaseOption) ApplySearchTerm(b *Builder) {
	if o.searchTerm == "" {
		return
	}
	like := "%" + o.searchTerm + "%"
	parts := make([]string, len(searchColumns))
	args := make([]any, len(searchColumns))
	for i, col := range searchColumns {
		parts[i] = col + " LIKE ?"
		args[i] = like
	}
	b.Append(" AND ("+strings.Join(parts, " OR ")+")", args...)
}

// ApplyOrderAndLimit appends ORDER BY and LIMIT/OFFSET.  Always called last.
func (o *BaseOption) ApplyOrderAndLimit(b *Builder) {
	if o.sortField != "" {
		b.Append(" ORDER BY " + o.sortField + " " + o.sortDir)
	}
	if o.paginated {
		b.Append(" LIMIT ? OFFSET ?", o.limit, o.offset)
	}
}
