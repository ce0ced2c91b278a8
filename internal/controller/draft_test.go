// internal/controller/draft_test.go
//
// Draft visibility through the public slug action: a draft record must be
// indistinguishable from a missing one for anonymous callers, and render
// normally once logged in.

package controller

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/session"
	"github.com/yanizio/skiff/internal/view"
	"github.com/yanizio/skiff/internal/web"
)

// writeTemplates lays out a minimal views/ tree for the renderer.
func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"views/page/item.html":   `<article>{{.PageTitle}}: {{.Data.Item.title}}</article>`,
		"views/layout/page.html": `<html><body>{{.Content}}</body></html>`,
	}
	for rel, body := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newDraftController(t *testing.T) (*Draft, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { raw.Close() })

	db := sqlx.NewDb(raw, "sqlmock")
	m := model.NewDraft(db, "page", model.Schema{
		{Name: "title", Label: "Title"},
		{Name: "slug", Label: "Slug"},
	})

	c := NewDraft(Config{
		App:       "page",
		Model:     m,
		Views:     view.New(writeTemplates(t), "Skiff", false),
		ItemTitle: "Page",
	})
	return c, mock
}

// slugContext builds a request context carrying one slug capture.
func slugContext(slug string, loggedIn bool) (*web.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/"+slug, nil)
	sess := session.NewManager(time.Hour).Load(httptest.NewRecorder(), r)
	if loggedIn {
		sess.Login("admin")
	}
	return &web.Context{Writer: w, Request: r, Params: []string{slug}, Session: sess}, w
}

func expectSlugRow(mock sqlmock.Sqlmock, slug string, isDraft int64) {
	mock.ExpectQuery("SELECT * FROM page WHERE slug = ?").
		WithArgs(slug).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "is_draft"}).
			AddRow(int64(7), "Hello", slug, isDraft))
}

func TestActionItemBySlug_DraftHiddenFromAnonymous(t *testing.T) {
	c, mock := newDraftController(t)
	expectSlugRow(mock, "hello", 1)

	ctx, w := slugContext("hello", false)
	c.ActionItemBySlug(ctx)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for an anonymous draft hit", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestActionItemBySlug_DraftVisibleWhenLoggedIn(t *testing.T) {
	c, mock := newDraftController(t)
	expectSlugRow(mock, "hello", 1)

	ctx, w := slugContext("hello", true)
	c.ActionItemBySlug(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an admin draft hit", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Hello") {
		t.Fatalf("rendered body missing the item title: %q", w.Body.String())
	}
}

func TestActionItemBySlug_PublishedVisibleToAnonymous(t *testing.T) {
	c, mock := newDraftController(t)
	expectSlugRow(mock, "hello", 0)

	ctx, w := slugContext("hello", false)
	c.ActionItemBySlug(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a published item", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<article>Page: Hello</article>") {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestActionItemBySlug_MissingSlugIs404(t *testing.T) {
	c, mock := newDraftController(t)
	mock.ExpectQuery("SELECT * FROM page WHERE slug = ?").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "is_draft"}))

	ctx, w := slugContext("nope", false)
	c.ActionItemBySlug(ctx)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for an unknown slug", w.Code)
	}
}
