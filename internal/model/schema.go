// internal/model/schema.go
//
// Field-definition table.
//
// Context
// -------
// Every model binds a table name to an ordered field schema.  The schema is
// the single source of truth for three things: form-population defaults,
// validation rules, and which keys are permitted in create/update payloads
// (anything else is silently dropped, never rejected).
//
// Notes
// -----
// • Order matters: INSERT/UPDATE column lists follow schema order so the
//   generated SQL is deterministic.
// • Oxford commas, two spaces after periods.

package model

// Rules describes the validation applied to one field.  Zero values mean
// "rule not set"; rules run in the fixed order required → numeric →
// alnum-hyphen[,dot] → max → min → prohibited → unique, and all set rules
// run (errors accumulate per field).
type Rules struct {
	Required       bool
	Numeric        bool
	AlnumHyphen    bool
	AlnumHyphenDot bool
	Max            int // byte length; 0 = unset
	Min            int // byte length; 0 = unset
	Prohibited     []string
	Unique         bool
}

// Field declares one writable column.
type Field struct {
	Name    string
	Label   string // user-facing, used in validation messages
	Default string // form-population default
	Rules   Rules
}

// Schema is the ordered field list of one model.
type Schema []Field

// Has reports whether name is a declared field.
func (s Schema) Has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Names returns the declared field names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// Record is one associative row: id plus declared fields, with the
// soft-delete tier adding deleted_at and the draft tier is_draft.
type Record map[string]any
