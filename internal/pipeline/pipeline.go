// Package pipeline holds the authoritative in-memory task set for the
// signed-in owner and derives a filtered, sorted view from it under the
// user's current criteria, writing mutations through to storage.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mlefevre/todopro/internal/model"
)

// Repository is the slice of the task store the pipeline reads from and
// writes through to. *store.SQLiteStore satisfies it.
type Repository interface {
	ListTasks(ctx context.Context, ownerID int64) ([]*model.Task, error)
	AddTask(ctx context.Context, t *model.Task) error
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context, ownerID int64) (int, error)
	PersistOrder(ctx context.Context, tasks []*model.Task) error
}

// SortMode selects the view ordering.
type SortMode int

const (
	SortManual   SortMode = iota // manual order index, ascending
	SortRecent                   // creation time, newest first (default)
	SortPriority                 // priority descending, then recency
	SortCategory                 // category ascending, then recency
	SortDueDate                  // due date ascending, undated last, then recency
)

// StatusFilter narrows the view by completion state.
type StatusFilter int

const (
	StatusAll StatusFilter = iota
	StatusActive
	StatusDone
)

// Criteria is the full set of user-controlled view parameters.
type Criteria struct {
	Search    string
	TagFilter string
	Category  string          // "" selects all categories
	Priority  *model.Priority // nil selects all priorities
	Status    StatusFilter
	Sort      SortMode
}

// TaskList owns the source collection (all loaded tasks for the current
// owner) and the derived view collection.
//
// TaskList is confined to a single goroutine. The rebuild guard handles
// re-entrancy — rebuild requests arriving from inside a rebuild's own change
// notifications — not parallelism.
type TaskList struct {
	repo    Repository
	ctx     context.Context
	ownerID int64

	source []*model.Task
	view   []*model.Task

	criteria Criteria

	rebuilding bool
	pending    bool

	viewListeners  []func()
	errorListeners []func(error)
}

// New returns an empty pipeline with the default criteria: recency sort and
// no filters.
func New(repo Repository) *TaskList {
	return &TaskList{
		repo:     repo,
		ctx:      context.Background(),
		criteria: Criteria{Sort: SortRecent},
	}
}

// OnViewChanged registers fn to run after every view rebuild.
func (l *TaskList) OnViewChanged(fn func()) {
	l.viewListeners = append(l.viewListeners, fn)
}

// OnError registers fn to receive storage errors from write-through paths
// that have no direct caller to return to, such as task change events.
func (l *TaskList) OnError(fn func(error)) {
	l.errorListeners = append(l.errorListeners, fn)
}

func (l *TaskList) reportError(err error) {
	for _, fn := range l.errorListeners {
		fn(err)
	}
}

// View returns the current derived view collection.
func (l *TaskList) View() []*model.Task {
	return append([]*model.Task(nil), l.view...)
}

// Tasks returns the authoritative source collection.
func (l *TaskList) Tasks() []*model.Task {
	return append([]*model.Task(nil), l.source...)
}

// Criteria returns the current filter/sort criteria.
func (l *TaskList) Criteria() Criteria {
	return l.criteria
}

// OwnerID returns the owner whose tasks are loaded, or 0 before Load.
func (l *TaskList) OwnerID() int64 {
	return l.ownerID
}

// Load replaces the source collection with ownerID's stored tasks and
// rebuilds the view. Tasks written before manual ordering existed carry the
// OrderIndex sentinel 0; when any is present, the whole set gets fresh
// contiguous indices by ascending creation time, persisted exactly once.
// The given context is also retained for write-throughs triggered later by
// task change events.
func (l *TaskList) Load(ctx context.Context, ownerID int64) error {
	l.ctx = ctx
	l.ownerID = ownerID
	l.source = nil

	tasks, err := l.repo.ListTasks(ctx, ownerID)
	if err != nil {
		l.requestRebuild()
		return err
	}

	if hasLegacyOrder(tasks) {
		ordered := append([]*model.Task(nil), tasks...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		})
		for i, t := range ordered {
			t.OrderIndex = i + 1
		}
		if err := l.repo.PersistOrder(ctx, ordered); err != nil {
			l.requestRebuild()
			return err
		}
		tasks = ordered
	}

	for _, t := range tasks {
		l.watch(t)
	}
	l.source = tasks
	l.requestRebuild()
	return nil
}

func hasLegacyOrder(tasks []*model.Task) bool {
	for _, t := range tasks {
		if t.OrderIndex == 0 {
			return true
		}
	}
	return false
}

// watch subscribes the pipeline to a task's change events: any content
// change writes the record through to storage and rebuilds the view. The
// view already reflects the change, so a failed write is reported through
// OnError rather than rolled back.
func (l *TaskList) watch(t *model.Task) {
	t.Watch(func(string) {
		if err := l.repo.UpdateTask(l.ctx, t); err != nil {
			l.reportError(err)
		}
		l.requestRebuild()
	})
}

// Add creates a task for the current owner from the draft, prepends it to
// the source collection, and rebuilds.
func (l *TaskList) Add(ctx context.Context, draft Draft) (*model.Task, error) {
	category := draft.Category
	if category == "" {
		category = model.DefaultCategory
	}

	t := &model.Task{
		UserID:   l.ownerID,
		Title:    draft.Title,
		Category: category,
		Priority: draft.Priority,
		DueDate:  draft.DueDate,
		TagsRaw:  draft.TagsRaw,
	}
	if err := l.repo.AddTask(ctx, t); err != nil {
		return nil, err
	}

	l.watch(t)
	l.source = append([]*model.Task{t}, l.source...)
	l.requestRebuild()
	return t, nil
}

// Delete removes the task from the collection and storage. The in-memory
// removal is optimistic: a failed delete is returned, not rolled back.
func (l *TaskList) Delete(ctx context.Context, t *model.Task) error {
	l.removeFromSource(t)
	err := l.repo.DeleteTask(ctx, t.ID)
	l.requestRebuild()
	return err
}

// ClearCompleted drops every done task for the owner, reporting how many
// stored rows were removed.
func (l *TaskList) ClearCompleted(ctx context.Context) (int, error) {
	kept := l.source[:0]
	for _, t := range l.source {
		if !t.IsDone {
			kept = append(kept, t)
		}
	}
	l.source = kept

	n, err := l.repo.ClearCompleted(ctx, l.ownerID)
	l.requestRebuild()
	return n, err
}

func (l *TaskList) removeFromSource(t *model.Task) {
	for i, existing := range l.source {
		if existing == t {
			l.source = append(l.source[:i], l.source[i+1:]...)
			return
		}
	}
}

// SetSearch updates the free-text filter and rebuilds.
func (l *TaskList) SetSearch(text string) {
	if l.criteria.Search == text {
		return
	}
	l.criteria.Search = text
	l.requestRebuild()
}

// SetTagFilter updates the tag filter text and rebuilds.
func (l *TaskList) SetTagFilter(text string) {
	if l.criteria.TagFilter == text {
		return
	}
	l.criteria.TagFilter = text
	l.requestRebuild()
}

// SetCategoryFilter updates the category filter ("" selects all) and
// rebuilds.
func (l *TaskList) SetCategoryFilter(category string) {
	if l.criteria.Category == category {
		return
	}
	l.criteria.Category = category
	l.requestRebuild()
}

// SetPriorityFilter updates the priority filter (nil selects all) and
// rebuilds.
func (l *TaskList) SetPriorityFilter(p *model.Priority) {
	if equalPriorityFilter(l.criteria.Priority, p) {
		return
	}
	l.criteria.Priority = p
	l.requestRebuild()
}

// SetStatusFilter updates the completion-state filter and rebuilds.
func (l *TaskList) SetStatusFilter(status StatusFilter) {
	if l.criteria.Status == status {
		return
	}
	l.criteria.Status = status
	l.requestRebuild()
}

// SetSortMode updates the sort mode and rebuilds.
func (l *TaskList) SetSortMode(mode SortMode) {
	if l.criteria.Sort == mode {
		return
	}
	l.criteria.Sort = mode
	l.requestRebuild()
}

func equalPriorityFilter(a, b *model.Priority) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CanReorder reports whether manual drag-reordering is currently allowed:
// manual sort with every filter at its default. Anything else would let a
// partial or re-sorted view silently corrupt the persisted manual order.
func (l *TaskList) CanReorder() bool {
	c := l.criteria
	return c.Sort == SortManual &&
		c.Category == "" &&
		c.Priority == nil &&
		c.Status == StatusAll &&
		strings.TrimSpace(c.Search) == "" &&
		strings.TrimSpace(c.TagFilter) == ""
}

// Reorder moves the view item at oldIndex to newIndex, reassigns contiguous
// manual order across the whole view, mirrors the source collection, and
// persists the new order. Requests while reordering is ineligible or out of
// bounds are no-ops with no state change and no storage write.
func (l *TaskList) Reorder(ctx context.Context, oldIndex, newIndex int) error {
	if !l.CanReorder() || oldIndex == newIndex {
		return nil
	}
	if oldIndex < 0 || newIndex < 0 || oldIndex >= len(l.view) || newIndex >= len(l.view) {
		return nil
	}

	moved := l.view[oldIndex]
	l.view = append(l.view[:oldIndex], l.view[oldIndex+1:]...)
	l.view = append(l.view[:newIndex], append([]*model.Task{moved}, l.view[newIndex:]...)...)

	// OrderIndex is set directly: position changes are not content edits
	// and must not fan out through the change-notification registry.
	for i, t := range l.view {
		t.OrderIndex = i + 1
	}
	l.source = append([]*model.Task(nil), l.view...)

	err := l.repo.PersistOrder(ctx, l.view)
	l.requestRebuild()
	return err
}

// requestRebuild recomputes the view, coalescing re-entrant requests. A
// request arriving while a rebuild is running (from a view-change callback,
// for example) only marks pending work; the loop drains it after the current
// pass finishes. Bursts of criteria changes collapse into a bounded number of
// rebuilds and the last requested state always wins.
func (l *TaskList) requestRebuild() {
	if l.rebuilding {
		l.pending = true
		return
	}
	l.rebuilding = true
	defer func() { l.rebuilding = false }()

	for {
		l.pending = false
		l.rebuild()
		if !l.pending {
			return
		}
	}
}

// rebuild derives the view from the source collection: category, priority,
// status, search, and tag filters in that order, then the active sort.
func (l *TaskList) rebuild() {
	view := make([]*model.Task, 0, len(l.source))
	for _, t := range l.source {
		if l.matches(t) {
			view = append(view, t)
		}
	}
	l.sortView(view)
	l.view = view

	for _, fn := range l.viewListeners {
		fn()
	}
}

func (l *TaskList) matches(t *model.Task) bool {
	c := l.criteria

	if c.Category != "" && t.Category != c.Category {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	switch c.Status {
	case StatusActive:
		if t.IsDone {
			return false
		}
	case StatusDone:
		if !t.IsDone {
			return false
		}
	}
	if term := strings.TrimSpace(c.Search); term != "" {
		if !containsFold(t.Title, term) && !containsFold(t.Category, term) {
			return false
		}
	}
	for _, tag := range model.TagTokens(c.TagFilter) {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

func (l *TaskList) sortView(view []*model.Task) {
	switch l.criteria.Sort {
	case SortManual:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].OrderIndex < view[j].OrderIndex
		})
	case SortPriority:
		sort.SliceStable(view, func(i, j int) bool {
			if view[i].Priority != view[j].Priority {
				return view[i].Priority > view[j].Priority
			}
			return view[i].CreatedAt.After(view[j].CreatedAt)
		})
	case SortCategory:
		sort.SliceStable(view, func(i, j int) bool {
			if view[i].Category != view[j].Category {
				return view[i].Category < view[j].Category
			}
			return view[i].CreatedAt.After(view[j].CreatedAt)
		})
	case SortDueDate:
		sort.SliceStable(view, func(i, j int) bool {
			di, dj := dueOrMax(view[i]), dueOrMax(view[j])
			if !di.Equal(dj) {
				return di.Before(dj)
			}
			return view[i].CreatedAt.After(view[j].CreatedAt)
		})
	default: // SortRecent
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].CreatedAt.After(view[j].CreatedAt)
		})
	}
}

// dueOrMax sorts tasks without a due date after every dated task.
func dueOrMax(t *model.Task) time.Time {
	if t.DueDate == nil {
		return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return *t.DueDate
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
