// internal/controller/admin_test.go
//
// The redirect-after-post cycle: a failed POST must flash the submitted
// values, the field errors, and an error message, then redirect back to
// the form URL; a successful create must redirect to the new record's
// canonical edit URL with a one-time success message.  The GET that
// follows a redirect drains the flash keys, so a second GET renders clean.

package controller

import (
	"net/http"
	"net/http/httptest"
	"net/url"
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

// writeFormTemplates lays out create and edit views that print the form
// payload as labelled plain-text fields, so body assertions stay simple.
func writeFormTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	probe := `err={{.Data.Error}};ok={{.Data.Success}};` +
		`form={{index .Data.Errors "_form"}};field={{index .Data.Errors "title"}};` +
		`title={{.Data.Data.title}};`
	files := map[string]string{
		"views/page/create.html": "create:" + probe,
		"views/page/edit.html":   "edit:" + probe,
		"views/layout/page.html": `{{.Content}}`,
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

func newAdminController(t *testing.T) (*Admin, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { raw.Close() })

	db := sqlx.NewDb(raw, "sqlmock")
	m := model.NewBase(db, "page", model.Schema{
		{Name: "title", Label: "Title", Rules: model.Rules{Required: true}},
		{Name: "content", Label: "Content"},
	})

	c := NewAdmin(AdminConfig{
		Config: Config{
			App:   "page",
			Model: m,
			Views: view.New(writeFormTemplates(t), "Skiff", false),
		},
		CreateTitle: "New Page",
		EditTitle:   "Edit Page",
	})
	return c, mock
}

// adminSession returns a logged-in session reusable across requests.
func adminSession(t *testing.T) *session.Session {
	t.Helper()
	m := session.NewManager(time.Hour)
	sess := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	sess.Login("admin")
	return sess
}

func getContext(sess *session.Session, params ...string) (*web.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/page/admin/create/", nil)
	return &web.Context{Writer: w, Request: r, Params: params, Session: sess}, w
}

func postContext(sess *session.Session, form url.Values, params ...string) (*web.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/page/admin/create/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return &web.Context{Writer: w, Request: r, Params: params, Session: sess}, w
}

func TestActionCreate_InvalidTokenFlashesAndRedirects(t *testing.T) {
	c, _ := newAdminController(t)
	sess := adminSession(t)

	ctx, w := postContext(sess, url.Values{"title": {"Hello"}, "csrf_token": {"forged"}})
	c.ActionCreate(ctx)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 after a rejected POST", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/page/admin/create/" {
		t.Fatalf("Location = %q, want the create form URL", loc)
	}

	// The GET that follows the redirect drains the flash.
	ctx, w = getContext(sess)
	c.ActionCreate(ctx)
	body := w.Body.String()
	if !strings.Contains(body, msgCreateError) {
		t.Fatalf("body missing flashed error message: %q", body)
	}
	if !strings.Contains(body, msgInvalidCSRF) {
		t.Fatalf("body missing the form-level error: %q", body)
	}
	if !strings.Contains(body, "title=Hello;") {
		t.Fatalf("body missing the round-tripped form value: %q", body)
	}

	// The flash is one-time: a refresh renders clean.
	ctx, w = getContext(sess)
	c.ActionCreate(ctx)
	if body := w.Body.String(); strings.Contains(body, msgCreateError) {
		t.Fatalf("error message survived a second render: %q", body)
	}
}

func TestActionCreate_ValidationFailureFlashesFieldErrors(t *testing.T) {
	c, _ := newAdminController(t)
	sess := adminSession(t)

	tok := sess.GenerateToken("page_admin")
	ctx, w := postContext(sess, url.Values{"title": {""}, "content": {"body"}, "csrf_token": {tok}})
	c.ActionCreate(ctx)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 after a validation failure", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/page/admin/create/" {
		t.Fatalf("Location = %q, want the create form URL", loc)
	}

	ctx, w = getContext(sess)
	c.ActionCreate(ctx)
	body := w.Body.String()
	if !strings.Contains(body, msgCreateError) {
		t.Fatalf("body missing flashed error message: %q", body)
	}
	if !strings.Contains(body, "is required.") {
		t.Fatalf("body missing the field error: %q", body)
	}
}

func TestActionCreate_SuccessRedirectsToEdit(t *testing.T) {
	c, mock := newAdminController(t)
	sess := adminSession(t)

	mock.ExpectExec("INSERT INTO page (title, content) VALUES (?, ?)").
		WithArgs("Hello", "body").
		WillReturnResult(sqlmock.NewResult(42, 1))

	tok := sess.GenerateToken("page_admin")
	ctx, w := postContext(sess, url.Values{"title": {"Hello"}, "content": {"body"}, "csrf_token": {tok}})
	c.ActionCreate(ctx)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 after a successful create", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/page/admin/edit/42" {
		t.Fatalf("Location = %q, want the new record's edit URL", loc)
	}

	// The edit GET drains the success message.
	mock.ExpectQuery("SELECT * FROM page WHERE id = ?").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).
			AddRow(int64(42), "Hello", "body"))

	ctx, w = getContext(sess, "42")
	c.ActionEdit(ctx)
	body := w.Body.String()
	if !strings.Contains(body, msgCreateSuccess) {
		t.Fatalf("body missing the success message: %q", body)
	}
	if !strings.Contains(body, "title=Hello;") {
		t.Fatalf("body missing the stored title: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestActionEdit_ValidationFailureRedirectsBack(t *testing.T) {
	c, mock := newAdminController(t)
	sess := adminSession(t)

	mock.ExpectQuery("SELECT * FROM page WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).
			AddRow(int64(7), "Old", "body"))

	tok := sess.GenerateToken("page_admin")
	ctx, w := postContext(sess, url.Values{"title": {""}, "content": {"body"}, "csrf_token": {tok}}, "7")
	c.ActionEdit(ctx)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 after a validation failure", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/page/admin/edit/7" {
		t.Fatalf("Location = %q, want the edit form URL", loc)
	}

	// The follow-up GET shows the error, and the flashed (empty) title wins
	// over the stored one.
	mock.ExpectQuery("SELECT * FROM page WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).
			AddRow(int64(7), "Old", "body"))

	ctx, w = getContext(sess, "7")
	c.ActionEdit(ctx)
	body := w.Body.String()
	if !strings.Contains(body, msgEditError) {
		t.Fatalf("body missing flashed error message: %q", body)
	}
	if !strings.Contains(body, "is required.") {
		t.Fatalf("body missing the field error: %q", body)
	}
	if !strings.Contains(body, "title=;") {
		t.Fatalf("flashed form value should win over the stored title: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestActionCreate_AnonymousForbidden(t *testing.T) {
	c, _ := newAdminController(t)
	m := session.NewManager(time.Hour)
	sess := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	ctx, w := getContext(sess)
	c.ActionCreate(ctx)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for an anonymous caller", w.Code)
	}
}
