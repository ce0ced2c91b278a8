// internal/model/draft.go
//
// Draft model tier.
//
// Adds draft visibility on top of soft delete: nil options default to a
// DraftOption so every unqualified read is draft-aware.  The public
// "a draft looks absent to anonymous callers" rule lives in the controller
// layer, which knows the caller's auth state.

package model

import (
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/query"
)

// Draft is the draft-visibility tier.
type Draft struct {
	Soft
}

// NewDraft binds table and schema at the draft tier.
func NewDraft(db *sqlx.DB, table string, schema Schema) *Draft {
	m := &Draft{Soft: *NewSoft(db, table, schema)}
	m.caps = query.CapFilter | query.CapTrashed | query.CapDraft
	m.defaultOpt = func() query.Option { return query.NewDraft() }
	return m
}
