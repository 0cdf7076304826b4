package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags_NormalizesAndDedupes(t *testing.T) {
	tags := ParseTags("  work, #urgent ,Work")

	assert.Equal(t, []string{"#work", "#urgent"}, tags)
}

func TestParseTags_Empty(t *testing.T) {
	assert.Empty(t, ParseTags(""))
	assert.Empty(t, ParseTags("  , ,, "))
}

func TestTagTokens_SplitsOnSpacesAndCommas(t *testing.T) {
	tags := TagTokens("#work urgent,#home")

	assert.Equal(t, []string{"#work", "#urgent", "#home"}, tags)
}

func TestTask_HasTag(t *testing.T) {
	task := &Task{TagsRaw: "work, urgent"}

	assert.True(t, task.HasTag("#Work"))
	assert.True(t, task.HasTag("#urgent"))
	assert.False(t, task.HasTag("#home"))
}

func TestTask_SubtasksMalformedJSON(t *testing.T) {
	task := &Task{SubtasksJSON: "{not json"}

	assert.Empty(t, task.Subtasks())
}

func TestTask_SubtaskCounts(t *testing.T) {
	task := &Task{}
	task.SetSubtasks([]Subtask{
		{Title: "one", IsDone: true},
		{Title: "two"},
		{Title: "three", IsDone: true},
	})

	done, total := task.SubtaskCounts()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
}

func TestTask_WatchNotifiesOnChange(t *testing.T) {
	task := &Task{Title: "old"}

	var fields []string
	task.Watch(func(field string) { fields = append(fields, field) })

	task.SetTitle("new")
	task.SetDone(true)
	task.SetPriority(PriorityHigh)

	assert.Equal(t, []string{FieldTitle, FieldIsDone, FieldPriority}, fields)
}

func TestTask_SetSameValueDoesNotNotify(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{Title: "same", IsDone: true, DueDate: &due}

	calls := 0
	task.Watch(func(string) { calls++ })

	task.SetTitle("same")
	task.SetDone(true)
	sameDue := due
	task.SetDueDate(&sameDue)

	assert.Zero(t, calls)
}

func TestTask_SetDueDateClear(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{DueDate: &due}

	calls := 0
	task.Watch(func(string) { calls++ })

	task.SetDueDate(nil)
	require.Nil(t, task.DueDate)
	assert.Equal(t, 1, calls)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}

func TestPriority_Label(t *testing.T) {
	assert.Equal(t, "Low", PriorityLow.Label())
	assert.Equal(t, "Normal", PriorityNormal.Label())
	assert.Equal(t, "High", PriorityHigh.Label())
}
