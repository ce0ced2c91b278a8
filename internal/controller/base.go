// internal/controller/base.go
//
// Shared read-only actions for content apps.
//
// Context
// -------
// Every app binds its model, views, and titles into a Config and embeds one
// of the controller tiers.  Base covers the public surface: paginated lists
// with free-text search, and single-item display by id.  Admin (admin.go)
// layers the create/edit/delete flows on top, SoftAdmin (softadmin.go) adds
// trash handling, and Draft (draft.go) adds slug lookup with draft
// visibility rules.
//
// Workflow
// --------
//  1. The router extracts path captures and invokes the bound action.
//  2. The action builds a tier-appropriate query option, asks the model for
//     rows, and renders a view inside the standard page layout.
//  3. Mutating actions live in the admin tiers and never share state with
//     the public ones beyond the model.
//
// Notes
// -----
//   • Controllers are constructed once at startup and hold no per-request
//     state; everything request-scoped rides on *web.Context.
//   • Oxford commas, two spaces after periods.

package controller

import (
	"go.uber.org/zap"

	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/pagination"
	"github.com/yanizio/skiff/internal/query"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/view"
	"github.com/yanizio/skiff/internal/web"
)

// listOption is the mutable slice of an option the list flow needs.  Every
// tier satisfies it through the embedded base option.
type listOption interface {
	query.Option
	SetSearchTerm(term string)
	SetPagination(offset, limit int)
}

// Config binds one app's resources to the shared actions.
type Config struct {
	App   string // URL segment, e.g. "page"
	Model model.Interface
	Views *view.Renderer

	ListTitle string
	ItemTitle string
	ListView  string // template name under views/<app>/
	ItemView  string
	PerPage   int

	// Option factories.  Nil falls back to the tier default: sort by
	// created_at DESC for lists, no filter for items.
	ListOptions func() query.Option
	ItemOptions func() query.Option
}

// Base implements the public list and item actions.
type Base struct {
	cfg Config
}

// NewBase returns a Base controller for cfg.
func NewBase(cfg Config) *Base {
	if cfg.PerPage < 1 {
		cfg.PerPage = 10
	}
	if cfg.ListView == "" {
		cfg.ListView = "list"
	}
	if cfg.ItemView == "" {
		cfg.ItemView = "item"
	}
	return &Base{cfg: cfg}
}

// App returns the app's URL segment.
func (c *Base) App() string { return c.cfg.App }

// Model returns the bound model.
func (c *Base) Model() model.Interface { return c.cfg.Model }

func (c *Base) listOptions() query.Option {
	if c.cfg.ListOptions != nil {
		return c.cfg.ListOptions()
	}
	o := query.NewBase()
	o.SetSort("created_at", "DESC")
	return o
}

func (c *Base) itemOptions() query.Option {
	if c.cfg.ItemOptions != nil {
		return c.cfg.ItemOptions()
	}
	return query.NewBase()
}

// ListPayload is the template payload for list views.
type ListPayload struct {
	Items      []model.Record
	Pagination *pagination.Pagination
	SearchTerm string
}

// ItemPayload is the template payload for single-item views.
type ItemPayload struct {
	Item model.Record
}

// ActionList renders the public paginated listing.
func (c *Base) ActionList(ctx *web.Context) {
	c.handleList(ctx, c.cfg.ListView, c.cfg.ListTitle, func(p *pagination.Pagination) query.Option {
		return c.listOptions()
	})
}

// ActionItem renders one item by numeric id, 404 when absent or filtered
// out by the tier's visibility rules.
func (c *Base) ActionItem(ctx *web.Context) {
	id := ctx.ParamInt64(0)
	item, err := c.cfg.Model.GetItemByID(ctx.Request.Context(), id, c.itemOptions())
	if err != nil {
		zap.S().Errorw("item fetch failed", "app", c.cfg.App, "id", id, "error", err)
		response.ServerError(ctx.Writer, "Failed to load the item.")
		return
	}
	if item == nil {
		response.NotFound(ctx.Writer)
		return
	}
	c.renderStandardPage(ctx, c.cfg.ItemView, c.cfg.ItemTitle, ItemPayload{Item: item})
}

// handleList runs the shared list flow: pagination from ?page=, search from
// ?s=, a COUNT with the same predicates as the item query, then render.
func (c *Base) handleList(ctx *web.Context, viewName, title string, optFn func(*pagination.Pagination) query.Option) {
	page := ctx.QueryInt("page", 1)
	pg := pagination.New(page, c.cfg.PerPage)

	opt := optFn(pg)
	lo, ok := opt.(listOption)
	if !ok {
		zap.S().Errorw("list option missing base capability", "app", c.cfg.App)
		response.ServerError(ctx.Writer, "Failed to load the list.")
		return
	}

	searchTerm := ctx.QueryValue("s", "")
	if searchTerm != "" {
		lo.SetSearchTerm(searchTerm)
	}

	// Count first so the pager can clamp the page, then bound the fetch.
	total, err := c.cfg.Model.GetTotalItems(ctx.Request.Context(), opt)
	if err != nil {
		zap.S().Errorw("list count failed", "app", c.cfg.App, "error", err)
		response.ServerError(ctx.Writer, "Failed to load the list.")
		return
	}
	pg.SetTotalItems(total)
	lo.SetPagination(pg.Offset(), pg.Limit())

	items, err := c.cfg.Model.GetItems(ctx.Request.Context(), opt)
	if err != nil {
		zap.S().Errorw("list fetch failed", "app", c.cfg.App, "error", err)
		response.ServerError(ctx.Writer, "Failed to load the list.")
		return
	}

	c.renderStandardPage(ctx, viewName, title, ListPayload{
		Items:      items,
		Pagination: pg,
		SearchTerm: searchTerm,
	})
}

// renderStandardPage wraps a template in the site layout.
func (c *Base) renderStandardPage(ctx *web.Context, viewName, title string, data any) {
	err := c.cfg.Views.RenderPage(ctx.Writer, c.cfg.App, viewName, view.PageData{
		PageTitle: title,
		LoggedIn:  ctx.LoggedIn(),
		Data:      data,
	})
	if err != nil {
		zap.S().Errorw("render failed", "app", c.cfg.App, "view", viewName, "error", err)
		response.ServerError(ctx.Writer, "Failed to render the page.")
	}
}

// requireAdmin rejects anonymous callers with a 403.
func (c *Base) requireAdmin(ctx *web.Context) bool {
	if !ctx.LoggedIn() {
		response.Forbidden(ctx.Writer)
		return false
	}
	return true
}
