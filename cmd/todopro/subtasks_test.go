package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/todopro/internal/model"
)

func TestAppendSubtask(t *testing.T) {
	items := appendSubtask(nil, "  pack bags ")
	require.Len(t, items, 1)
	assert.Equal(t, "pack bags", items[0].Title)
	assert.False(t, items[0].IsDone)

	assert.Len(t, appendSubtask(items, "   "), 1, "blank titles are ignored")
}

func TestToggleSubtask(t *testing.T) {
	items := []model.Subtask{{Title: "one"}, {Title: "two"}}

	items = toggleSubtask(items, 1)
	assert.True(t, items[1].IsDone)
	items = toggleSubtask(items, 1)
	assert.False(t, items[1].IsDone)

	assert.Len(t, toggleSubtask(items, 5), 2, "out-of-range is a no-op")
	assert.Len(t, toggleSubtask(items, -1), 2)
}

func TestRemoveSubtask(t *testing.T) {
	items := []model.Subtask{{Title: "one"}, {Title: "two"}, {Title: "three"}}

	items = removeSubtask(items, 1)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Title)
	assert.Equal(t, "three", items[1].Title)

	assert.Len(t, removeSubtask(items, -1), 2, "out-of-range is a no-op")
}

func TestSubtaskEdits_FlowThroughChangeEvents(t *testing.T) {
	task := &model.Task{Title: "trip"}

	var changed []string
	task.Watch(func(field string) { changed = append(changed, field) })

	items := appendSubtask(task.Subtasks(), "book hotel")
	items = appendSubtask(items, "pack bags")
	items = toggleSubtask(items, 0)
	task.SetSubtasks(items)

	// The whole edit lands as one change event for write-through.
	require.Equal(t, []string{model.FieldSubtasks}, changed)

	done, total := task.SubtaskCounts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)
}
