// apps/toppage/toppage.go
//
// Top page: renders the site's front view with the latest published
// information articles.

package toppage

import (
	"go.uber.org/zap"

	"github.com/yanizio/skiff/apps/information"
	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/query"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/router"
	"github.com/yanizio/skiff/internal/view"
	"github.com/yanizio/skiff/internal/web"
)

func init() { app.Register(App{}) }

// App registers the front-page route.  It owns no tables.
type App struct{}

func (App) Name() string { return "toppage" }

func (App) Schema() []string { return nil }

func (App) Routes(env *app.Env) router.Table {
	m := information.NewModel(env.DB)
	return router.Table{
		{Pattern: "/", Handler: actionToppage(env, m)},
	}
}

// Payload is the front-page template payload.
type Payload struct {
	Latest []model.Record
}

func actionToppage(env *app.Env, m *information.Model) web.Handler {
	return func(ctx *web.Context) {
		o := query.NewDraft()
		o.SetDraft(false)
		o.SetTrashed(false)
		o.SetSort("created_at", "DESC")
		o.SetPagination(0, 5)

		latest, err := m.GetItems(ctx.Request.Context(), o)
		if err != nil {
			zap.S().Errorw("toppage fetch failed", "error", err)
			response.ServerError(ctx.Writer, "Failed to load the page.")
			return
		}

		err = env.Views.RenderPage(ctx.Writer, "toppage", "toppage", view.PageData{
			PageTitle: env.Config.Site.Title,
			LoggedIn:  ctx.LoggedIn(),
			Data:      Payload{Latest: latest},
		})
		if err != nil {
			zap.S().Errorw("toppage render failed", "error", err)
			response.ServerError(ctx.Writer, "Failed to render the page.")
		}
	}
}
