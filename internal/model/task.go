package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority is a task's urgency level, stored as its integer value.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Label returns the display name for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Normal"
	}
}

// DefaultCategory is assigned to tasks created without an explicit category.
const DefaultCategory = "General"

// MaxTitleLength bounds task titles.
const MaxTitleLength = 200

// Subtask is one entry of a task's serialized subtask list.
type Subtask struct {
	Title  string `json:"title"`
	IsDone bool   `json:"isDone"`
}

// Field names passed to Watch callbacks when a Set* mutator changes a task.
const (
	FieldTitle    = "Title"
	FieldIsDone   = "IsDone"
	FieldCategory = "Category"
	FieldPriority = "Priority"
	FieldDueDate  = "DueDate"
	FieldTags     = "TagsRaw"
	FieldSubtasks = "SubtasksJson"
)

// Task is a single todo item belonging to one account. Fields map 1:1 onto
// the Task table.
//
// Task is an observable record: mutations should go through the Set* methods
// so that callbacks registered with Watch observe the change. Writing a field
// directly bypasses notification (the store does this when scanning rows).
type Task struct {
	ID           int64      `db:"Id"`
	UserID       int64      `db:"UserId"`
	OrderIndex   int        `db:"OrderIndex"`
	Title        string     `db:"Title"`
	IsDone       bool       `db:"IsDone"`
	Category     string     `db:"Category"`
	Priority     Priority   `db:"Priority"`
	DueDate      *time.Time `db:"DueDate"`
	CreatedAt    time.Time  `db:"CreatedAt"`
	UpdatedAt    time.Time  `db:"UpdatedAt"`
	TagsRaw      string     `db:"TagsRaw"`
	SubtasksJSON string     `db:"SubtasksJson"`

	watchers []func(field string)
}

// Watch registers fn to be called whenever a Set* mutator changes a field.
func (t *Task) Watch(fn func(field string)) {
	t.watchers = append(t.watchers, fn)
}

func (t *Task) notify(field string) {
	for _, fn := range t.watchers {
		fn(field)
	}
}

// SetTitle updates the title, notifying watchers when the value changes.
func (t *Task) SetTitle(title string) {
	if t.Title == title {
		return
	}
	t.Title = title
	t.notify(FieldTitle)
}

// SetDone updates the completion flag, notifying watchers on change.
func (t *Task) SetDone(done bool) {
	if t.IsDone == done {
		return
	}
	t.IsDone = done
	t.notify(FieldIsDone)
}

// SetCategory updates the category, notifying watchers on change.
func (t *Task) SetCategory(category string) {
	if t.Category == category {
		return
	}
	t.Category = category
	t.notify(FieldCategory)
}

// SetPriority updates the priority, notifying watchers on change.
func (t *Task) SetPriority(p Priority) {
	if t.Priority == p {
		return
	}
	t.Priority = p
	t.notify(FieldPriority)
}

// SetDueDate updates the due date, notifying watchers on change.
// A nil value clears the due date.
func (t *Task) SetDueDate(due *time.Time) {
	if equalDate(t.DueDate, due) {
		return
	}
	t.DueDate = due
	t.notify(FieldDueDate)
}

// SetTagsRaw updates the raw tag string, notifying watchers on change.
func (t *Task) SetTagsRaw(raw string) {
	if t.TagsRaw == raw {
		return
	}
	t.TagsRaw = raw
	t.notify(FieldTags)
}

// SetSubtasks replaces the subtask list, re-serializing it into SubtasksJSON
// and notifying watchers on change.
func (t *Task) SetSubtasks(items []Subtask) {
	if items == nil {
		items = []Subtask{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return
	}
	raw := string(encoded)
	if t.SubtasksJSON == raw {
		return
	}
	t.SubtasksJSON = raw
	t.notify(FieldSubtasks)
}

// Tags returns the normalized tag set derived from TagsRaw.
func (t *Task) Tags() []string {
	return ParseTags(t.TagsRaw)
}

// HasTag reports whether the task carries the given normalized tag,
// compared case-insensitively.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags() {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// Subtasks parses SubtasksJSON. Malformed or empty text yields an empty list,
// never an error.
func (t *Task) Subtasks() []Subtask {
	raw := strings.TrimSpace(t.SubtasksJSON)
	if raw == "" {
		return nil
	}
	var items []Subtask
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// SubtaskCounts returns how many subtasks are done and how many exist.
func (t *Task) SubtaskCounts() (done, total int) {
	items := t.Subtasks()
	for _, item := range items {
		if item.IsDone {
			done++
		}
	}
	return done, len(items)
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
