// apps/information/information.go
//
// Information app: dated announcements with a public listing, slug-based
// display, and the full draft/trash admin surface.

package information

import (
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/controller"
	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/query"
	"github.com/yanizio/skiff/internal/router"
)

func init() { app.Register(App{}) }

var schema = model.Schema{
	{Name: "title", Label: "Article title", Rules: model.Rules{Required: true}},
	{Name: "content", Label: "Article body"},
	{Name: "slug", Label: "Path name", Rules: model.Rules{
		AlnumHyphenDot: true,
		Unique:         true,
		Max:            255,
		Prohibited:     []string{"edit", "create"},
	}},
	{Name: "is_draft", Label: "Status", Default: "1"},
}

// Model persists information articles.
type Model struct {
	*model.Draft
}

// NewModel binds the information table to db.
func NewModel(db *sqlx.DB) *Model {
	return &Model{Draft: model.NewDraft(db, "information", schema)}
}

// App registers the information routes and schema.
type App struct{}

func (App) Name() string { return "information" }

func (App) Schema() []string {
	return []string{`
CREATE TABLE IF NOT EXISTS information (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL DEFAULT '',
    slug       TEXT NOT NULL DEFAULT '',
    is_draft   INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP
)`}
}

func (App) Routes(env *app.Env) router.Table {
	m := NewModel(env.DB)

	pub := controller.NewDraft(controller.Config{
		App:       "information",
		Model:     m,
		Views:     env.Views,
		ListTitle: "Information",
		ItemTitle: "Information",
		PerPage:   env.Config.Site.PerPage,
		ListOptions: func() query.Option {
			o := query.NewDraft()
			o.SetDraft(false)
			o.SetTrashed(false)
			o.SetSort("created_at", "DESC")
			return o
		},
		ItemOptions: func() query.Option {
			o := query.NewDraft()
			o.SetDraft(false)
			o.SetTrashed(false)
			return o
		},
	})

	adm := controller.NewSoftAdmin(controller.AdminConfig{
		Config: controller.Config{
			App:       "information",
			Model:     m,
			Views:     env.Views,
			ListTitle: "Information articles",
			PerPage:   env.Config.Site.AdminPerPage,
			ListOptions: func() query.Option {
				o := query.NewSoft()
				o.SetTrashed(false)
				o.SetSort("created_at", "DESC")
				return o
			},
		},
		CreateTitle: "New article",
		EditTitle:   "Edit article",
		TokenName:   "information_admin",
	}, m)

	return router.Table{
		{Pattern: "/information/", Handler: pub.ActionList},
		{Pattern: "/information/%s", Handler: pub.ActionItemBySlug},
		{Pattern: "/information/admin/", Handler: adm.ActionList, MenuLabel: "Administration of information", MenuOrder: 30},
		{Pattern: "/information/admin/trashed/", Handler: adm.ActionTrashList},
		{Pattern: "/information/admin/create/", Handler: adm.ActionCreate},
		{Pattern: "/information/admin/edit/%d", Handler: adm.ActionEdit},
		{Pattern: "/information/admin/trash/%d", Handler: adm.ActionSoftDelete},
		{Pattern: "/information/admin/untrash/%d", Handler: adm.ActionRestore},
		{Pattern: "/information/admin/delete/%d", Handler: adm.ActionHardDelete},
	}
}
