package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTodoApply(t *testing.T) {
	title := "buy bread"
	done := true
	due := "2026-11-03"

	todo := &Todo{ID: "t1", UserID: "u1", Title: "buy milk", Priority: PriorityMedium}
	todo.Apply(TodoPatch{Title: &title, Completed: &done, DueDate: &due})

	assert.Equal(t, "t1", todo.ID)
	assert.Equal(t, "u1", todo.UserID)
	assert.Equal(t, "buy bread", todo.Title)
	assert.Equal(t, PriorityMedium, todo.Priority)
	assert.True(t, todo.Completed)
	assert.Equal(t, "2026-11-03", *todo.DueDate)

	// the stored pointer must not alias the patch
	due = "changed"
	assert.Equal(t, "2026-11-03", *todo.DueDate)
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{"low", "medium", "high"} {
		assert.True(t, ValidPriority(p), p)
	}
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))
}
