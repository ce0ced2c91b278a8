// internal/app/registry.go
//
// App registry (configuration-as-data, cycle-free).
//
// Context
// -------
// Each concrete app lives under apps/<name> and calls app.Register() in an
// init() function; cmd/web selects the set and order of apps through its
// import block.  The registry preserves registration order, because route
// aggregation order — and therefore match priority — follows it.  There is
// no filesystem scan: the set of installed apps is an explicit list fixed
// at process start.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package app

import (
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/config"
	"github.com/yanizio/skiff/internal/router"
	"github.com/yanizio/skiff/internal/view"
)

// Env bundles what an app needs to build its route table.
type Env struct {
	DB     *sqlx.DB
	Views  *view.Renderer
	Config *config.Config
}

// App is the registration contract.
//
// Schema may return nil when the app owns no tables.  Routes must be pure
// table construction; handlers capture their dependencies from env.
type App interface {
	Name() string
	Routes(env *Env) router.Table
	Schema() []string
}

var (
	mu   sync.Mutex
	apps []App
)

// Register is called from app init() functions.  Order of registration is
// order of route aggregation.
func Register(a App) {
	mu.Lock()
	defer mu.Unlock()
	for _, existing := range apps {
		if existing.Name() == a.Name() {
			panic("app: duplicate registration for " + a.Name())
		}
	}
	apps = append(apps, a)
}

// All returns every registered app in registration order.
func All() []App {
	mu.Lock()
	defer mu.Unlock()
	out := make([]App, len(apps))
	copy(out, apps)
	return out
}

// Tables builds every app's route table, in registration order.
func Tables(env *Env) []router.Table {
	all := All()
	tables := make([]router.Table, 0, len(all))
	for _, a := range all {
		tables = append(tables, a.Routes(env))
	}
	return tables
}
