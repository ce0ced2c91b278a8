// internal/web/context.go
//
// Central per-request context.
//
// Context
// -------
// The router builds one *web.Context per dispatched request and passes it
// to the bound handler.  It bundles:
//
//   - Writer  — the http.ResponseWriter.
//   - Request — the original *http.Request.
//   - Params  — positional captures extracted from the route pattern.
//   - Session — the client's flash/CSRF/auth session handle.
//
// Notes
// -----
// • Handlers terminate the request themselves; the context carries no
//   response state of its own.
// • Oxford commas, two spaces after periods.
package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/yanizio/skiff/internal/session"
)

// Handler is a route-bound action.  Params arrive on the context in
// pattern-capture order.
type Handler func(*Context)

// Context is passed to every dispatched handler.
type Context struct {
	Writer  http.ResponseWriter
	Request *http.Request
	Params  []string
	Session *session.Session
}

// Param returns the i-th pattern capture, or "".
func (c *Context) Param(i int) string {
	if i < 0 || i >= len(c.Params) {
		return ""
	}
	return c.Params[i]
}

// ParamInt64 parses the i-th capture as an integer.  A %d placeholder
// guarantees digits, so a parse failure yields 0.
func (c *Context) ParamInt64(i int) int64 {
	n, _ := strconv.ParseInt(c.Param(i), 10, 64)
	return n
}

// IsPost reports whether the request is a POST.
func (c *Context) IsPost() bool { return c.Request.Method == http.MethodPost }

// Form parses and returns the POST body values.
func (c *Context) Form() url.Values {
	_ = c.Request.ParseForm()
	return c.Request.PostForm
}

// QueryValue returns a URL query parameter, or def when absent.
func (c *Context) QueryValue(key, def string) string {
	if v := c.Request.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

// QueryInt returns a URL query parameter as int, or def when absent or
// unparsable.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Request.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}

// LoggedIn reports whether the session authenticated as admin.
func (c *Context) LoggedIn() bool {
	return c.Session != nil && c.Session.LoggedIn()
}
