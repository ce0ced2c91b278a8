// internal/router/router.go
//
// Pattern router: aggregation, matching, and dispatch.
//
// Context
// -------
// At startup the router compiles every registered app's route table into
// anchored regexes, preserving app registration order and within-app
// declaration order.  Dispatch walks that aggregate list: the first
// syntactically matching non-default pattern wins and the search stops;
// the single /%s catch-all, when registered, is tried after everything
// else.  Specificity is purely declaration-order based — a deliberate
// simplicity trade-off, not an accident.
//
// A matched entry with a nil handler is treated as no route at all (404,
// logged).  That masks configuration bugs, and is preserved on purpose:
// a broken admin link must not take the public site down with a 500.
//
// Notes
// -----
// • Matchers are compiled once per process; tables are never mutated after
//   Build.
// • Oxford commas, two spaces after periods.

package router

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/skiff/internal/metrics"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/web"
)

type compiled struct {
	Entry
	re *regexp.Regexp
}

// Router holds the aggregate, order-preserving route list.
type Router struct {
	entries []compiled
	def     *compiled
	menu    []MenuItem
}

// Build compiles the tables in the given order.  A second default pattern,
// or a malformed one, is a startup error — routes are configuration, and
// configuration bugs should surface before the first request.
func Build(tables ...Table) (*Router, error) {
	rt := &Router{menu: menuItems(tables)}

	for _, t := range tables {
		for _, e := range t {
			if e.Pattern == DefaultPattern {
				if rt.def != nil {
					return nil, fmt.Errorf("router: multiple %s default patterns registered", DefaultPattern)
				}
				re, err := compilePattern(e.Pattern)
				if err != nil {
					return nil, err
				}
				def := compiled{Entry: e, re: re}
				rt.def = &def
				continue
			}

			re, err := compilePattern(e.Pattern)
			if err != nil {
				return nil, err
			}
			rt.entries = append(rt.entries, compiled{Entry: e, re: re})
		}
	}
	return rt, nil
}

// Dispatch terminates the request: it invokes the first matching handler
// with the extracted captures, or emits a 404.
func (rt *Router) Dispatch(ctx *web.Context) {
	path := ctx.Request.URL.Path
	metrics.DispatchTotal.Inc()

	for i := range rt.entries {
		if params, ok := match(&rt.entries[i], path); ok {
			rt.invoke(&rt.entries[i], ctx, params)
			return
		}
	}
	if rt.def != nil {
		if params, ok := match(rt.def, path); ok {
			rt.invoke(rt.def, ctx, params)
			return
		}
	}

	metrics.DispatchMissTotal.Inc()
	zap.S().Infow("no matching route", "path", path)
	response.NotFound(ctx.Writer)
}

// Menu returns the aggregated admin-menu entries.
func (rt *Router) Menu() []MenuItem { return rt.menu }

func (rt *Router) invoke(c *compiled, ctx *web.Context, params []string) {
	if c.Handler == nil {
		// Equivalent to no route found, never a 500.
		metrics.DispatchMissTotal.Inc()
		zap.S().Errorw("route has no handler", "pattern", c.Pattern, "path", ctx.Request.URL.Path)
		response.NotFound(ctx.Writer)
		return
	}
	ctx.Params = params
	c.Handler(ctx)
}

func match(c *compiled, path string) ([]string, bool) {
	m := c.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// compilePattern translates a route pattern into an anchored regex:
// %d → (\d+), %s → ([^/]+), everything else matched literally.  A pattern
// with zero placeholders therefore matches only the identical path.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")

	rest := pattern
	for rest != "" {
		i := strings.IndexByte(rest, '%')
		if i < 0 || i == len(rest)-1 {
			sb.WriteString(regexp.QuoteMeta(rest))
			break
		}
		sb.WriteString(regexp.QuoteMeta(rest[:i]))
		switch rest[i+1] {
		case 'd':
			sb.WriteString(`(\d+)`)
		case 's':
			sb.WriteString(`([^/]+)`)
		default:
			sb.WriteString(regexp.QuoteMeta(rest[i : i+2]))
		}
		rest = rest[i+2:]
	}

	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("router: pattern %q: %w", pattern, err)
	}
	return re, nil
}
