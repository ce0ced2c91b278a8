// internal/model/validate.go
//
// Field-rule validation.
//
// Context
// -------
// ValidateData runs every set rule of every declared field against a
// payload and accumulates messages per field; evaluation never
// short-circuits at the first failure, so a form can surface all problems
// at once.  The unique rule round-trips to storage through IsUnique and, in
// edit mode, excludes the record's own id so a record cannot collide with
// itself.
//
// Notes
// -----
// • Messages are user-facing and keyed by field name; they are rendered
//   inline next to form inputs.
// • Lengths are byte lengths, matching the storage column limits.

package model

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValidationErrors maps field name → accumulated messages.  A nil map means
// the payload passed.
type ValidationErrors map[string][]string

var (
	alnumHyphenRe    = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	alnumHyphenDotRe = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

// ValidateData validates data against the schema's rule table.  isEdit with
// id excludes that record from uniqueness checks.  The returned error is a
// storage failure during a unique check, not a validation outcome.
func (m *Base) ValidateData(ctx context.Context, data Record, isEdit bool, id int64) (ValidationErrors, error) {
	errs := ValidationErrors{}

	for _, f := range m.schema {
		value := stringValue(data[f.Name])
		label := f.Label
		if label == "" {
			label = f.Name
		}
		r := f.Rules

		if r.Required && value == "" {
			errs.add(f.Name, fmt.Sprintf("%q is required.", label))
		}
		if r.Numeric {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs.add(f.Name, fmt.Sprintf("%q accepts digits only.", label))
			}
		}
		if r.AlnumHyphen && !alnumHyphenRe.MatchString(value) {
			errs.add(f.Name, fmt.Sprintf("%q accepts letters, digits, and hyphens only.", label))
		}
		if r.AlnumHyphenDot && !alnumHyphenDotRe.MatchString(value) {
			errs.add(f.Name, fmt.Sprintf("%q accepts letters, digits, hyphens, and dots only.", label))
		}
		if r.Max > 0 && len(value) > r.Max {
			errs.add(f.Name, fmt.Sprintf("%q must be at most %d characters.", label, r.Max))
		}
		if r.Min > 0 && len(value) < r.Min {
			errs.add(f.Name, fmt.Sprintf("%q must be at least %d characters.", label, r.Min))
		}
		if len(r.Prohibited) > 0 && contains(r.Prohibited, value) {
			errs.add(f.Name, fmt.Sprintf("%q may not be any of: %s.", label, strings.Join(r.Prohibited, ", ")))
		}
		if r.Unique {
			excludeID := int64(0)
			if isEdit {
				excludeID = id
			}
			unique, err := m.IsUnique(ctx, f.Name, value, excludeID)
			if err != nil {
				return nil, err
			}
			if !unique {
				errs.add(f.Name, fmt.Sprintf("%q is already in use.", label))
			}
		}
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

func (e ValidationErrors) add(field, msg string) { e[field] = append(e[field], msg) }

// Messages flattens the map into one ordered slice, for contexts that show
// a single combined error block (JSON endpoints, flash banners).
func (e ValidationErrors) Messages() []string {
	var out []string
	for _, msgs := range e {
		out = append(out, msgs...)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
