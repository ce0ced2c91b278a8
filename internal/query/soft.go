// internal/query/soft.go
//
// Soft-delete tier: adds the tri-state trashed filter on top of the base
// option.  Unset means "any"; explicit false selects live rows, explicit
// true selects trashed rows.

package query

// SoftOption filters on the deleted_at column in addition to everything the
// base tier offers.
type SoftOption struct {
	BaseOption
	trashed *bool
}

// NewSoft returns a soft-tier option with the trashed filter unset.
func NewSoft() *SoftOption { return &SoftOption{} }

// SetTrashed selects trashed (true) or live (false) rows.
func (o *SoftOption) SetTrashed(trashed bool) { o.trashed = &trashed }

// Caps adds CapTrashed to the base set.
func (o *SoftOption) Caps() Caps { return o.BaseOption.Caps() | CapTrashed }

// ApplyToQuery applies the base tier first, then the trashed predicate.
func (o *SoftOption) ApplyToQuery(b *Builder) {
	o.BaseOption.ApplyToQuery(b)

	if o.trashed == nil {
		return
	}
	if *o.trashed {
		b.Append(" AND deleted_at IS NOT NULL")
	} else {
		b.Append(" AND deleted_at IS NULL")
	}
}
