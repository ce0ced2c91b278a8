// internal/controller/draft.go
//
// Public slug lookup with draft visibility.
//
// A draft record must look absent, not forbidden, to anonymous callers.
// The 404 on an anonymous draft hit is deliberate: it avoids confirming
// that the slug exists at all.

package controller

import (
	"go.uber.org/zap"

	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/web"
)

// Draft adds slug-based public display for draft-capable apps.
type Draft struct {
	Base
}

// NewDraft returns a Draft controller for cfg.
func NewDraft(cfg Config) *Draft {
	return &Draft{Base: *NewBase(cfg)}
}

// ActionItemBySlug renders one item located by its slug capture.  Drafts
// render only for logged-in callers; everyone else gets a 404.
func (c *Draft) ActionItemBySlug(ctx *web.Context) {
	slug := ctx.Param(0)
	item, err := c.cfg.Model.GetItemByField(ctx.Request.Context(), "slug", slug, nil)
	if err != nil {
		zap.S().Errorw("slug fetch failed", "app", c.cfg.App, "slug", slug, "error", err)
		response.ServerError(ctx.Writer, "Failed to load the item.")
		return
	}
	if item == nil {
		response.NotFound(ctx.Writer)
		return
	}

	if isDraft(item["is_draft"]) && !ctx.LoggedIn() {
		response.NotFound(ctx.Writer)
		return
	}

	c.renderStandardPage(ctx, c.cfg.ItemView, c.cfg.ItemTitle, ItemPayload{Item: item})
}

// isDraft interprets the storage representation of the is_draft column.
func isDraft(v any) bool {
	switch t := v.(type) {
	case int64:
		return t == 1
	case int:
		return t == 1
	case string:
		return t == "1"
	case bool:
		return t
	default:
		return false
	}
}
