// cmd/web/main.go
//
// Skiff – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load configuration (conf/.env → conf/skiff.yaml → SKIFF_* env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the database and build the app environment (views, config).
//
//  4. Aggregate every registered app's route table into the dispatcher;
//     feed the admin-menu entries to the view layer.
//
//  5. Assemble the chi mux: security headers, request enrichment,
//     Prometheus /metrics, static /uploads, and the pattern dispatcher as
//     the catch-all.
//
//  6. Serve with hardened timeouts; SIGINT/SIGTERM drains in-flight
//     requests before exit.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/config"
	"github.com/yanizio/skiff/internal/database"
	"github.com/yanizio/skiff/internal/logger"
	"github.com/yanizio/skiff/internal/middleware"
	"github.com/yanizio/skiff/internal/requestinfo"
	"github.com/yanizio/skiff/internal/router"
	"github.com/yanizio/skiff/internal/server"
	"github.com/yanizio/skiff/internal/session"
	"github.com/yanizio/skiff/internal/view"
	"github.com/yanizio/skiff/internal/web"

	// Installed apps.  Import order is route-aggregation order, so keep the
	// slug catch-all owner (page) last.
	_ "github.com/yanizio/skiff/apps/toppage"
	_ "github.com/yanizio/skiff/apps/information"
	_ "github.com/yanizio/skiff/apps/file"
	_ "github.com/yanizio/skiff/apps/auth"
	_ "github.com/yanizio/skiff/apps/page"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Database connect ────────────────────────────────────────────
	//
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logOut.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	logOut.Infow("database online", "driver", cfg.Database.Driver)

	//
	// ── 2.  Sessions, views, app environment ───────────────────────────
	//
	sessions := session.NewManager(cfg.Session.TTL)
	stopJanitor := make(chan struct{})
	go sessions.Janitor(stopJanitor, time.Minute)

	views := view.New(cfg.Paths.Root, cfg.Site.Title, false)

	env := &app.Env{DB: db, Views: views, Config: cfg}

	//
	// ── 3.  Route aggregation and dispatcher ───────────────────────────
	//
	rt, err := router.Build(app.Tables(env)...)
	if err != nil {
		logOut.Fatalf("build routes: %v", err)
	}

	menu := make([]view.MenuEntry, 0, len(rt.Menu()))
	for _, m := range rt.Menu() {
		menu = append(menu, view.MenuEntry{Path: m.Path, Label: m.Label})
	}
	views.SetMenu(menu)
	logOut.Infow("routes online", "apps", len(app.All()), "menu", len(menu))

	//
	// ── 4.  Mux assembly ────────────────────────────────────────────────
	//
	mux := chi.NewRouter()
	mux.Use(middleware.Security)
	mux.Use(requestinfo.Enrich)

	mux.Handle("/metrics", promhttp.Handler())

	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir)))
	mux.Handle("/uploads/*", uploads)

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ctx := &web.Context{
			Writer:  w,
			Request: r,
			Session: sessions.Load(w, r),
		}
		rt.Dispatch(ctx)
	})

	var handler http.Handler = mux
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}

	//
	// ── 5.  Serve with graceful shutdown ───────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		close(stopJanitor)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
	logOut.Infow("shutdown complete")
}
