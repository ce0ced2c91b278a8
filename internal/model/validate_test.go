// internal/model/validate_test.go
//
// Unit-tests for field-rule validation: rule order, accumulation without
// short-circuiting, empty-value semantics, and the edit-mode unique check.

package model

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateData_AccumulatesAllFailures(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", Schema{
		{Name: "code", Label: "Code", Rules: Rules{
			Numeric:    true,
			Max:        3,
			Prohibited: []string{"1234"},
		}},
	})

	errs, err := m.ValidateData(context.Background(), Record{"code": "1234"}, false, 0)
	if err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	// Numeric passes; max and prohibited both fail and both are reported.
	if got := len(errs["code"]); got != 2 {
		t.Fatalf("messages = %d (%v), want 2", got, errs["code"])
	}
}

func TestValidateData_RulesRunOnEmptyValues(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", Schema{
		{Name: "slug", Label: "Slug", Rules: Rules{AlnumHyphenDot: true}},
	})

	// A blank value still fails the character-class rule; only fields
	// without rules may be blank.
	errs, err := m.ValidateData(context.Background(), Record{"slug": ""}, false, 0)
	if err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	if len(errs["slug"]) != 1 {
		t.Fatalf("errs = %v, want one slug message", errs)
	}
}

func TestValidateData_NilMapMeansPass(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", Schema{
		{Name: "title", Label: "Title", Rules: Rules{Required: true}},
	})

	errs, err := m.ValidateData(context.Background(), Record{"title": "ok"}, false, 0)
	if err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	if errs != nil {
		t.Fatalf("errs = %v, want nil on pass", errs)
	}
}

func TestValidateData_UniqueExcludesOwnIDOnEdit(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", Schema{
		{Name: "slug", Label: "Slug", Rules: Rules{AlnumHyphenDot: true, Unique: true}},
	})

	mock.ExpectQuery("SELECT COUNT(*) FROM plain WHERE slug = ? AND id != ?").
		WithArgs("mine", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	errs, err := m.ValidateData(context.Background(), Record{"slug": "mine"}, true, 5)
	if err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	if errs != nil {
		t.Fatalf("unchanged slug reported on edit: %v", errs)
	}
	expectations(t, mock)
}

func TestValidateData_UniqueCollisionOnCreate(t *testing.T) {
	db, mock := newMockDB(t)
	m := NewBase(db, "plain", Schema{
		{Name: "slug", Label: "Slug", Rules: Rules{AlnumHyphenDot: true, Unique: true}},
	})

	mock.ExpectQuery("SELECT COUNT(*) FROM plain WHERE slug = ?").
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	errs, err := m.ValidateData(context.Background(), Record{"slug": "taken"}, false, 0)
	if err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	if len(errs["slug"]) != 1 {
		t.Fatalf("errs = %v, want one uniqueness message", errs)
	}
	expectations(t, mock)
}

func TestValidateData_RequiredAndProhibited(t *testing.T) {
	db, _ := newMockDB(t)
	m := NewBase(db, "plain", Schema{
		{Name: "title", Label: "Title", Rules: Rules{Required: true}},
		{Name: "slug", Label: "Slug", Rules: Rules{Prohibited: []string{"edit", "create"}}},
	})

	errs, err := m.ValidateData(context.Background(), Record{"title": "", "slug": "edit"}, false, 0)
	if err != nil {
		t.Fatalf("ValidateData: %v", err)
	}
	if len(errs["title"]) != 1 || len(errs["slug"]) != 1 {
		t.Fatalf("errs = %v", errs)
	}
}
