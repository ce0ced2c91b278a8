// apps/auth/auth.go
//
// Auth app: the single admin login and logout.
//
// Credentials come from configuration (auth.username plus a bcrypt
// password_hash); there is no user table.  A failed login redirects back to
// the form with an error flag rather than revealing which check failed.

package auth

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/router"
	"github.com/yanizio/skiff/internal/view"
	"github.com/yanizio/skiff/internal/web"
)

func init() { app.Register(App{}) }

// App registers the login and logout routes.  It owns no tables.
type App struct{}

func (App) Name() string { return "auth" }

func (App) Schema() []string { return nil }

func (App) Routes(env *app.Env) router.Table {
	c := &Controller{env: env}
	return router.Table{
		{Pattern: "/login/", Handler: c.ActionLogin},
		{Pattern: "/logout/", Handler: c.ActionLogout},
	}
}

// Controller serves the login form and the session toggles.
type Controller struct {
	env *app.Env
}

// LoginPayload backs the login view.
type LoginPayload struct {
	Error string
}

// ActionLogin renders the form on GET and checks credentials on POST.
func (c *Controller) ActionLogin(ctx *web.Context) {
	if ctx.IsPost() {
		c.login(ctx)
		return
	}

	err := c.env.Views.RenderPage(ctx.Writer, "auth", "login", view.PageData{
		PageTitle: "Login",
		Data:      LoginPayload{Error: ctx.QueryValue("error", "")},
	})
	if err != nil {
		zap.S().Errorw("login render failed", "error", err)
		response.ServerError(ctx.Writer, "Failed to render the page.")
	}
}

func (c *Controller) login(ctx *web.Context) {
	username := ctx.Form().Get("username")
	password := ctx.Form().Get("password")

	cred := c.env.Config.Auth
	if username == cred.Username &&
		bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil {
		ctx.Session.Login(username)
		zap.S().Infow("login", "username", username)
		response.Redirect(ctx.Writer, ctx.Request, "/")
		return
	}

	zap.S().Infow("login rejected", "username", username)
	response.Redirect(ctx.Writer, ctx.Request, "/login/?error=invalid_credentials")
}

// ActionLogout drops the session's authenticated state.
func (c *Controller) ActionLogout(ctx *web.Context) {
	ctx.Session.Logout()
	response.Redirect(ctx.Writer, ctx.Request, "/login/")
}
