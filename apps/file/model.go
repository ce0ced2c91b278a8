// apps/file/model.go
//
// Upload metadata storage (soft tier).

package file

import (
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/model"
)

var schema = model.Schema{
	{Name: "path", Label: "Path"},
	{Name: "description", Label: "Description", Rules: model.Rules{Max: 255}},
}

// Model persists uploaded-file records.
type Model struct {
	*model.Soft
}

// NewModel binds the file table to db.
func NewModel(db *sqlx.DB) *Model {
	return &Model{Soft: model.NewSoft(db, "file", schema)}
}
