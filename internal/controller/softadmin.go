// internal/controller/softadmin.go
//
// Trash handling on top of the admin flows.
//
// Soft-delete and restore are single-shot actions: run the model operation,
// then redirect to the record's edit page so the admin sees the new state.
// These routes carry no CSRF token.

package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/pagination"
	"github.com/yanizio/skiff/internal/query"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/web"
)

// SoftAdmin adds the trash list and soft-delete/restore actions.
type SoftAdmin struct {
	Admin
	softModel model.SoftInterface
}

// NewSoftAdmin returns a SoftAdmin for cfg.  The model must implement the
// soft-delete surface.
func NewSoftAdmin(cfg AdminConfig, m model.SoftInterface) *SoftAdmin {
	return &SoftAdmin{Admin: *NewAdmin(cfg), softModel: m}
}

// ActionTrashList renders the listing of trashed records.
func (c *SoftAdmin) ActionTrashList(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}
	c.handleList(ctx, c.cfg.ListView, c.cfg.ListTitle, func(p *pagination.Pagination) query.Option {
		o := query.NewSoft()
		o.SetTrashed(true)
		return o
	})
}

// ActionSoftDelete moves the record to the trash, then returns to its edit
// page.  Trashing an already-trashed record succeeds trivially.
func (c *SoftAdmin) ActionSoftDelete(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}
	id := ctx.ParamInt64(0)
	if err := c.softModel.SoftDelete(ctx.Request.Context(), id); err != nil {
		zap.S().Errorw("soft delete failed", "app", c.cfg.App, "id", id, "error", err)
		response.ServerError(ctx.Writer, "Failed to trash the item.")
		return
	}
	response.Redirect(ctx.Writer, ctx.Request, fmt.Sprintf("/%s/admin/edit/%d", c.cfg.App, id))
}

// ActionRestore clears the record's deleted marker, then returns to its
// edit page.
func (c *SoftAdmin) ActionRestore(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}
	id := ctx.ParamInt64(0)
	if err := c.softModel.Restore(ctx.Request.Context(), id); err != nil {
		zap.S().Errorw("restore failed", "app", c.cfg.App, "id", id, "error", err)
		response.ServerError(ctx.Writer, "Failed to restore the item.")
		return
	}
	response.Redirect(ctx.Writer, ctx.Request, fmt.Sprintf("/%s/admin/edit/%d", c.cfg.App, id))
}
