package model

import "time"

// Priority levels accepted for a Todo.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DueDateLayout is the wire format of Todo.DueDate.
const DueDateLayout = "2006-01-02"

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is an owner-scoped task item.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"dueDate"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TodoPatch lists the fields a caller may change on an existing Todo.
// Nil fields are left untouched.
type TodoPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Completed   *bool   `json:"completed"`
}

// Apply merges the non-nil patch fields into t.
func (t *Todo) Apply(p TodoPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
