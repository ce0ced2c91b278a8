// internal/router/table.go
//
// Route tables: the registration contract each app fulfils.
//
// A pattern is a literal path with typed placeholders: %d matches one or
// more digits, %s one or more non-slash characters.  Handlers are bound as
// closures at startup, so the set of reachable actions is statically
// enumerable — no string-keyed class lookup at dispatch time.

package router

import (
	"sort"

	"github.com/yanizio/skiff/internal/web"
)

// DefaultPattern is the one global catch-all, always evaluated last so
// specific routes outrank the slug fallback.
const DefaultPattern = "/%s"

// Entry binds one pattern to a handler, with optional admin-menu metadata.
type Entry struct {
	Pattern   string
	Handler   web.Handler
	MenuLabel string // non-empty entries appear in the admin menu
	MenuOrder int
}

// Table is one app's ordered route list.
type Table []Entry

// MenuItem is one aggregated admin-menu entry.
type MenuItem struct {
	Path  string
	Label string
	Order int
}

// menuItems collects labeled entries from the tables, sorted by order.
func menuItems(tables []Table) []MenuItem {
	var items []MenuItem
	for _, t := range tables {
		for _, e := range t {
			if e.MenuLabel == "" {
				continue
			}
			items = append(items, MenuItem{Path: e.Pattern, Label: e.MenuLabel, Order: e.MenuOrder})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items
}
