// internal/model/model_test.go
//
// Unit-tests for the model tiers over a sqlmock connection.
//
// Context
// -------
// Every assertion pins down SQL the tiers are contractually required to
// emit: identical predicates for items and counts, payload filtering to
// declared columns, the updated_at stamp, the trashed-row update guard,
// and the fail-fast paths (tier mismatch, undeclared columns, duplicate
// rows on a unique column).
//
// Workflow
// --------
// Each test:
//
//   1. Builds a sqlmock DB with exact-string query matching.
//   2. Binds a model tier to it.
//   3. Runs one operation and asserts SQL, args, and returned values.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package model

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/skiff/internal/query"
)

var testSchema = Schema{
	{Name: "title", Label: "Title", Rules: Rules{Required: true}},
	{Name: "content", Label: "Body"},
	{Name: "slug", Label: "Slug", Rules: Rules{Unique: true, Max: 255}},
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func expectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetItems_AndCount_ShareThePredicates(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewSoft(db, "information", testSchema)

	const wherePart = "SELECT COUNT(*) FROM information WHERE 1=1 AND deleted_at IS NULL"
	mock.ExpectQuery(wherePart).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(15))

	const itemsQ = "SELECT * FROM information WHERE 1=1 AND deleted_at IS NULL" +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	mock.ExpectQuery(itemsQ).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(1, []byte("newest")).
			AddRow(2, []byte("older")))

	opt := query.NewSoft()
	opt.SetTrashed(false)
	opt.SetSort("created_at", "DESC")

	total, err := m.GetTotalItems(context.Background(), opt)
	if err != nil {
		t.Fatalf("GetTotalItems: %v", err)
	}
	if total != 15 {
		t.Fatalf("total = %d, want 15", total)
	}

	opt.SetPagination(0, 10)
	items, err := m.GetItems(context.Background(), opt)
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0]["title"] != "newest" {
		t.Fatalf("driver []byte not normalized: %#v", items[0]["title"])
	}

	expectations(t, mock)
}

func TestGetItems_RejectsHigherTierOption(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	_, err := m.GetItems(context.Background(), query.NewDraft())
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err = %v, want ErrInvalidOption", err)
	}
}

func TestGetItems_AcceptsLowerTierOption(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewDraft(db, "page", testSchema)

	mock.ExpectQuery("SELECT * FROM page WHERE 1=1 AND deleted_at IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	opt := query.NewSoft()
	opt.SetTrashed(true)
	if _, err := m.GetItems(context.Background(), opt); err != nil {
		t.Fatalf("soft option on draft model: %v", err)
	}
	expectations(t, mock)
}

func TestGetItems_RejectsUndeclaredSortColumn(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	opt := query.NewBase()
	opt.SetSort("title; DROP TABLE plain", "ASC")
	_, err := m.GetItems(context.Background(), opt)
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestCreateItem_DropsUndeclaredKeys(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	mock.ExpectExec("INSERT INTO plain (title) VALUES (?)").
		WithArgs("x").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := m.CreateItem(context.Background(), Record{"title": "x", "evil_column": "y"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	expectations(t, mock)
}

func TestUpdateItem_StampsUpdatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	mock.ExpectExec("UPDATE plain SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?").
		WithArgs("x", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := m.UpdateItem(context.Background(), 5, Record{"title": "x"}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	expectations(t, mock)
}

func TestSoftUpdateItem_GuardsTrashedRows(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewSoft(db, "information", testSchema)

	mock.ExpectExec("UPDATE information SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL").
		WithArgs("x", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Zero affected rows is success: the trashed target is skipped silently.
	if err := m.UpdateItem(context.Background(), 5, Record{"title": "x"}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	expectations(t, mock)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewSoft(db, "information", testSchema)

	mock.ExpectExec("UPDATE information SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE information SET deleted_at = NULL WHERE id = ?").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := m.SoftDelete(context.Background(), 3); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := m.Restore(context.Background(), 3); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	expectations(t, mock)
}

func TestGetItemByField_Misses(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	mock.ExpectQuery("SELECT * FROM plain WHERE slug = ?").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}))

	rec, err := m.GetItemByField(context.Background(), "slug", "nope", nil)
	if err != nil {
		t.Fatalf("GetItemByField: %v", err)
	}
	if rec != nil {
		t.Fatalf("rec = %v, want nil for a miss", rec)
	}
	expectations(t, mock)
}

func TestGetItemByField_DuplicateIsConsistencyViolation(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	mock.ExpectQuery("SELECT * FROM plain WHERE slug = ?").
		WithArgs("dup").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).
			AddRow(1, "dup").
			AddRow(2, "dup"))

	_, err := m.GetItemByField(context.Background(), "slug", "dup", nil)
	if !errors.Is(err, ErrNotUnique) {
		t.Fatalf("err = %v, want ErrNotUnique", err)
	}
	expectations(t, mock)
}

func TestGetItemByField_RejectsUndeclaredColumn(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	_, err := m.GetItemByField(context.Background(), "evil; --", "x", nil)
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestIsUnique_ExcludesOwnRowOnEdit(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	mock.ExpectQuery("SELECT COUNT(*) FROM plain WHERE slug = ? AND id != ?").
		WithArgs("kept-slug", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	unique, err := m.IsUnique(context.Background(), "slug", "kept-slug", 5)
	if err != nil {
		t.Fatalf("IsUnique: %v", err)
	}
	if !unique {
		t.Fatal("own row counted against uniqueness during edit")
	}
	expectations(t, mock)
}

func TestIsUnique_RejectsFrameworkColumns(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", testSchema)

	if _, err := m.IsUnique(context.Background(), "id", 1, 0); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField for undeclared column", err)
	}
}

func TestGetItemByID_UsesVisibilityOption(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewDraft(db, "page", testSchema)

	mock.ExpectQuery("SELECT * FROM page WHERE id = ? AND deleted_at IS NULL AND is_draft = ?").
		WithArgs(int64(9), 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(9, "live"))

	opt := query.NewDraft()
	opt.SetTrashed(false)
	opt.SetDraft(false)

	rec, err := m.GetItemByID(context.Background(), 9, opt)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if rec == nil || rec["title"] != "live" {
		t.Fatalf("rec = %v", rec)
	}
	expectations(t, mock)
}
