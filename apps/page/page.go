// apps/page/page.go
//
// Page app: slug-addressed content pages with draft and trash support.
//
// The public surface is the one slug catch-all; every specific route in
// other apps outranks it, so pages answer whatever is left over.  The slug
// defaults to a kebab-cased title when left blank on create.

package page

import (
	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/controller"
	"github.com/yanizio/skiff/internal/query"
	"github.com/yanizio/skiff/internal/router"
	"github.com/yanizio/skiff/internal/web"
)

func init() { app.Register(App{}) }

// App registers the page routes and schema.
type App struct{}

func (App) Name() string { return "page" }

func (App) Schema() []string {
	return []string{`
CREATE TABLE IF NOT EXISTS page (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL DEFAULT '',
    slug       TEXT NOT NULL DEFAULT '',
    parent_id  INTEGER,
    is_draft   INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP
)`}
}

func (App) Routes(env *app.Env) router.Table {
	m := NewModel(env.DB)

	pub := controller.NewDraft(controller.Config{
		App:       "page",
		Model:     m,
		Views:     env.Views,
		ItemTitle: "Page",
		PerPage:   env.Config.Site.PerPage,
	})

	adm := controller.NewSoftAdmin(controller.AdminConfig{
		Config: controller.Config{
			App:       "page",
			Model:     m,
			Views:     env.Views,
			ListTitle: "Pages",
			PerPage:   env.Config.Site.AdminPerPage,
			ListOptions: func() query.Option {
				o := query.NewSoft()
				o.SetTrashed(false)
				o.SetSort("created_at", "DESC")
				return o
			},
		},
		CreateTitle: "New page",
		EditTitle:   "Edit page",
		TokenName:   "page_admin",
	}, m)

	return router.Table{
		{Pattern: "/page/admin/", Handler: adm.ActionList, MenuLabel: "Administration of pages", MenuOrder: 20},
		{Pattern: "/page/admin/trashed/", Handler: adm.ActionTrashList},
		{Pattern: "/page/admin/create/", Handler: withDefaultSlug(adm.ActionCreate)},
		{Pattern: "/page/admin/edit/%d", Handler: adm.ActionEdit},
		{Pattern: "/page/admin/trash/%d", Handler: adm.ActionSoftDelete},
		{Pattern: "/page/admin/untrash/%d", Handler: adm.ActionRestore},
		{Pattern: "/page/admin/delete/%d", Handler: adm.ActionHardDelete},
		{Pattern: router.DefaultPattern, Handler: pub.ActionItemBySlug},
	}
}

// withDefaultSlug fills a blank slug from the title before the form flow
// runs, so authors can skip naming the path.
func withDefaultSlug(next web.Handler) web.Handler {
	return func(ctx *web.Context) {
		if ctx.IsPost() {
			f := ctx.Form()
			if f.Get("slug") == "" && f.Get("title") != "" {
				f.Set("slug", router.MakeSlug(f.Get("title")))
			}
		}
		next(ctx)
	}
}
