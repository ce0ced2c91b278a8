// apps/page/model.go
//
// Page storage binding (draft tier: soft delete + draft visibility).

package page

import (
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/model"
)

var schema = model.Schema{
	{Name: "title", Label: "Page title", Rules: model.Rules{Required: true}},
	{Name: "content", Label: "Page body"},
	{Name: "slug", Label: "Path name", Rules: model.Rules{
		AlnumHyphenDot: true,
		Unique:         true,
		Max:            255,
		Prohibited:     []string{"edit", "create"},
	}},
	{Name: "parent_id", Label: "Parent page"},
	{Name: "is_draft", Label: "Status", Default: "1"},
}

// Model persists pages.
type Model struct {
	*model.Draft
}

// NewModel binds the page table to db.
func NewModel(db *sqlx.DB) *Model {
	return &Model{Draft: model.NewDraft(db, "page", schema)}
}
