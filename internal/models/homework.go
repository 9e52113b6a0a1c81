package models

import "time"

// Homework represents a row in the homework table. ClassID references a
// class owned by the same account.
type Homework struct {
	EntryID  int64     `json:"entry_id"`
	UserID   string    `json:"user_id"`
	ClassID  int64     `json:"class"`
	Deadline string    `json:"deadline"` // YYYY-MM-DD
	Given    time.Time `json:"given"`
	Text     string    `json:"text"`
	Type     string    `json:"type"`   // b, v, w or o
	Status   *string   `json:"status"` // "0", "1" or "2"; null until first set
}

// HomeworkCreateRequest is the JSON body for POST /homework. Status is the
// only optional field.
type HomeworkCreateRequest struct {
	ClassID  *int64   `json:"class"`
	Deadline string   `json:"deadline"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Status   *Numeric `json:"status"`
}

// HomeworkPatch is the sparse JSON body for PATCH /homework/{id}.
type HomeworkPatch struct {
	ClassID  *int64   `json:"class"`
	Deadline *string  `json:"deadline"`
	Text     *string  `json:"text"`
	Type     *string  `json:"type"`
	Status   *Numeric `json:"status"`
}
