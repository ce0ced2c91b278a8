// internal/query/draft.go
//
// Draft tier: adds the tri-state draft filter on top of the soft-delete
// tier.  Unset means "both draft and published".

package query

// DraftOption filters on the is_draft column in addition to everything the
// soft tier offers.
type DraftOption struct {
	SoftOption
	draft *bool
}

// NewDraft returns a draft-tier option with both tri-state flags unset.
func NewDraft() *DraftOption { return &DraftOption{} }

// SetDraft selects drafts (true) or published rows (false).
func (o *DraftOption) SetDraft(draft bool) { o.draft = &draft }

// IncludeDrafts clears the draft filter so both states are returned.
func (o *DraftOption) IncludeDrafts() { o.draft = nil }

// Caps adds CapDraft to the soft set.
func (o *DraftOption) Caps() Caps { return o.SoftOption.Caps() | CapDraft }

// ApplyToQuery applies base and soft tiers first, then the draft predicate.
func (o *DraftOption) ApplyToQuery(b *Builder) {
	o.SoftOption.ApplyToQuery(b)

	if o.draft == nil {
		return
	}
	flag := 0
	if *o.draft {
		flag = 1
	}
	b.Append(" AND is_draft = ?", flag)
}
