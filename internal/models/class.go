package models

import "time"

// Class represents a row in the classes table: one subject with its
// grading weights, exclusively owned by one account.
type Class struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	GradeK   float64   `json:"grade_k"`
	GradeM   float64   `json:"grade_m"`
	GradeT   string    `json:"grade_t"` // numeric weight or the literal "1exam"
	GradeS   float64   `json:"grade_s"`
	Average  *float64  `json:"average"`
	LastUsed time.Time `json:"last_used"`
}

// ClassCreateRequest is the JSON body for POST /classes. All fields are
// required.
type ClassCreateRequest struct {
	Name   string   `json:"name"`
	Color  string   `json:"color"`
	GradeK *Numeric `json:"grade_k"`
	GradeM *Numeric `json:"grade_m"`
	GradeT *Numeric `json:"grade_t"`
	GradeS *Numeric `json:"grade_s"`
}

// ClassPatch is the sparse JSON body for PATCH /classes/{id}. Nil means
// the field was absent and keeps its stored value.
type ClassPatch struct {
	Name    *string  `json:"name"`
	Color   *string  `json:"color"`
	GradeK  *Numeric `json:"grade_k"`
	GradeM  *Numeric `json:"grade_m"`
	GradeT  *Numeric `json:"grade_t"`
	GradeS  *Numeric `json:"grade_s"`
	Average *Numeric `json:"average"`
}
