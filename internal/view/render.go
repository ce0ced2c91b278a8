// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – execute one app template and stream it to w.
//   - RenderPage     – wrap an app template in the standard page layout
//     (header, navigation, content, footer, admin bar).
//   - RenderToString – return template.HTML (partials, e-mails).
//
// Lookup precedence (first hit wins):
//   1. views/<app>/<tpl>.html
//   2. views/shared/<tpl>.html
//
// All templates in the same directory are parsed as one set so sub-templates
// ({{ template "row" . }}) work out-of-the-box.  The layout set under
// views/layout/ is parsed once and merged with the app template at page
// render time.
//
// execName() chooses the best template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yanizio/skiff/internal/cache"
	"github.com/yanizio/skiff/internal/metrics"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // cache parsed sets
	CacheSkip                       // never cache (dev mode)
)

// MenuEntry is one admin-bar link.  The router contributes these from app
// route tables so the view layer never imports the router.
type MenuEntry struct {
	Path  string
	Label string
}

// PageData is the payload handed to the standard layout.  App templates see
// it as the root context; the Data field carries per-page values.
type PageData struct {
	SiteTitle string
	PageTitle string
	Menu      []MenuEntry
	LoggedIn  bool
	Flash     map[string]any
	Data      any
}

// Renderer owns the template root and the parsed-set cache.
type Renderer struct {
	root      string // directory containing views/
	siteTitle string
	devMode   bool

	mu  sync.Mutex
	lru *cache.LRU[string, *template.Template]

	menuMu sync.RWMutex
	menu   []MenuEntry
}

// New returns a Renderer rooted at dir (the directory holding views/).
func New(dir, siteTitle string, devMode bool) *Renderer {
	return &Renderer{
		root:      dir,
		siteTitle: siteTitle,
		devMode:   devMode,
		lru:       cache.New[string, *template.Template](256),
	}
}

// SetMenu installs the admin-bar entries.  Called once after router build.
func (r *Renderer) SetMenu(items []MenuEntry) {
	r.menuMu.Lock()
	r.menu = items
	r.menuMu.Unlock()
}

// Menu returns the current admin-bar entries.
func (r *Renderer) Menu() []MenuEntry {
	r.menuMu.RLock()
	defer r.menuMu.RUnlock()
	return r.menu
}

//
// public helpers
//

// Render executes the app template and streams it to w.
//
// We first load (or parse) the appropriate template set, then execute the
// concrete template determined by execName().  This allows both:
//
//   - A simple file "list.html" with no {{ define }} block.  In that case
//     execName runs "list.html" automatically.
//   - A file that wraps markup in {{ define "list" }} … {{ end }} and relies
//     on that root template name.
func (r *Renderer) Render(w http.ResponseWriter, app, name string, data any) error {
	t, err := r.load(app, name)
	if err != nil {
		metrics.RenderErrorsTotal.Inc()
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, execName(t, name), data); err != nil {
		metrics.RenderErrorsTotal.Inc()
		return err
	}
	return nil
}

// RenderPage renders the app template inside the standard layout.  The
// content template is executed first so a failure there surfaces before any
// layout bytes hit the wire.
func (r *Renderer) RenderPage(w http.ResponseWriter, app, name string, page PageData) error {
	page.SiteTitle = r.siteTitle
	if page.Menu == nil && page.LoggedIn {
		page.Menu = r.Menu()
	}

	content, _, err := r.RenderToString(app, name, page)
	if err != nil {
		metrics.RenderErrorsTotal.Inc()
		return err
	}

	layout, err := r.load("layout", "page")
	if err != nil {
		metrics.RenderErrorsTotal.Inc()
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = layout.ExecuteTemplate(w, execName(layout, "page"), struct {
		PageData
		Content template.HTML
	}{page, content})
	if err != nil {
		metrics.RenderErrorsTotal.Inc()
	}
	return err
}

// RenderToString executes and returns HTML (used by the layout wrapper and
// partials).  It mirrors Render, but writes to a buffer instead of w.
func (r *Renderer) RenderToString(app, name string, data any) (template.HTML, CachePolicy, error) {
	t, err := r.load(app, name)
	if err != nil {
		return "", CacheSkip, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", CacheSkip, err
	}
	return template.HTML(buf.String()), CacheDefault, nil
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given app
// and base name.
func (r *Renderer) load(app, name string) (*template.Template, error) {
	key := strings.Join([]string{app, name}, "::")

	if !r.devMode {
		r.mu.Lock()
		v, ok := r.lru.Get(key)
		r.mu.Unlock()
		if ok {
			return v, nil
		}
	}

	paths := []string{
		filepath.Join(r.root, "views", app, name+".html"),
		filepath.Join(r.root, "views", "shared", name+".html"),
	}

	var base string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			base = p
			break
		}
	}
	if base == "" {
		return nil, os.ErrNotExist
	}

	// Parse all *.html in the same directory so sub-templates work.
	dir := filepath.Dir(base)
	pattern := filepath.Join(dir, "*.html")

	t, err := template.New(name).Funcs(funcMap()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	if !r.devMode {
		r.mu.Lock()
		r.lru.Add(key, t)
		r.mu.Unlock()
	}
	return t, nil
}

//
// func-map builders
//

func funcMap() template.FuncMap {
	fm := template.FuncMap{
		"dict": dict,
		"raw":  func(s string) template.HTML { return template.HTML(s) },
		"add":  func(a, b int) int { return a + b },
	}
	for k, v := range uaFuncMap() { // UA helpers (browser/os parsing)
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
