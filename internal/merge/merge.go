// Package merge implements the all-or-nothing partial-update contract used
// by the PATCH handlers: every supplied field must validate before any of
// them is applied to the working copy.
package merge

import (
	"errors"
	"fmt"
)

// ErrNotOwner is returned when the record belongs to a different user.
var ErrNotOwner = errors.New("record is owned by another user")

// InvalidFieldError reports the first supplied field that failed validation.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Field describes one optionally-present field of a PATCH body. Validate
// returns an empty string when the value is acceptable, otherwise the
// human-readable reason sent back to the client. Apply copies the value
// onto the caller's working copy.
type Field struct {
	Name     string
	Set      bool
	Validate func() string
	Apply    func()
}

// Apply checks ownership, validates every present field, and only then
// applies them all. Fields that are not set are left untouched. A single
// invalid field means nothing is applied and the caller must not persist.
func Apply(ownerID, recordOwner string, fields []Field) error {
	if recordOwner != ownerID {
		return ErrNotOwner
	}
	for _, f := range fields {
		if !f.Set || f.Validate == nil {
			continue
		}
		if reason := f.Validate(); reason != "" {
			return &InvalidFieldError{Field: f.Name, Reason: reason}
		}
	}
	for _, f := range fields {
		if f.Set {
			f.Apply()
		}
	}
	return nil
}
