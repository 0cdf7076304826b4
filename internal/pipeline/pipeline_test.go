package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/todopro/internal/model"
	"github.com/mlefevre/todopro/internal/pipeline"
	"github.com/mlefevre/todopro/internal/store"
	"github.com/mlefevre/todopro/tests/testutil"
)

// recordingRepo counts storage writes so tests can assert which operations
// touch the store, and can inject an update failure.
type recordingRepo struct {
	pipeline.Repository
	updates   int
	persists  int
	updateErr error
}

func (r *recordingRepo) UpdateTask(ctx context.Context, t *model.Task) error {
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.Repository.UpdateTask(ctx, t)
}

func (r *recordingRepo) PersistOrder(ctx context.Context, tasks []*model.Task) error {
	r.persists++
	return r.Repository.PersistOrder(ctx, tasks)
}

func newPipeline(t *testing.T) (*pipeline.TaskList, *recordingRepo, *store.SQLiteStore) {
	t.Helper()
	s := testutil.NewTestStore(t)
	repo := &recordingRepo{Repository: s}
	return pipeline.New(repo), repo, s
}

func addTask(t *testing.T, l *pipeline.TaskList, draft pipeline.Draft) *model.Task {
	t.Helper()
	task, err := l.Add(context.Background(), draft)
	require.NoError(t, err)
	// Creation timestamps must differ for recency ordering to be
	// deterministic.
	time.Sleep(2 * time.Millisecond)
	return task
}

func load(t *testing.T, l *pipeline.TaskList, ownerID int64) {
	t.Helper()
	require.NoError(t, l.Load(context.Background(), ownerID))
}

func titles(view []*model.Task) []string {
	out := make([]string, len(view))
	for i, task := range view {
		out[i] = task.Title
	}
	return out
}

func TestAdd_NewestFirstByDefault(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	addTask(t, l, pipeline.NewDraft("first"))
	addTask(t, l, pipeline.NewDraft("second"))

	assert.Equal(t, []string{"second", "first"}, titles(l.View()))
}

func TestAdd_DefaultsCategory(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	task := addTask(t, l, pipeline.NewDraft("no category"))
	assert.Equal(t, model.DefaultCategory, task.Category)
}

func TestSearch_MatchesTitleAndCategory(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	draft := pipeline.NewDraft("quarterly report")
	draft.ChooseCategory("Work")
	addTask(t, l, draft)
	addTask(t, l, pipeline.NewDraft("water plants"))

	l.SetSearch("REPORT")
	assert.Equal(t, []string{"quarterly report"}, titles(l.View()))

	l.SetSearch("work")
	assert.Equal(t, []string{"quarterly report"}, titles(l.View()))

	l.SetSearch("plants")
	assert.Equal(t, []string{"water plants"}, titles(l.View()))

	l.SetSearch("")
	assert.Len(t, l.View(), 2)
}

func TestTagFilter_RequiresAllTokens(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	both := pipeline.NewDraft("both tags")
	both.ChooseTags("work, urgent")
	addTask(t, l, both)
	one := pipeline.NewDraft("one tag")
	one.ChooseTags("#work")
	addTask(t, l, one)

	l.SetTagFilter("#work")
	assert.Len(t, l.View(), 2)

	l.SetTagFilter("work urgent")
	assert.Equal(t, []string{"both tags"}, titles(l.View()))
}

func TestStatusAndPriorityFilters(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	high := pipeline.NewDraft("high prio")
	high.ChoosePriority(model.PriorityHigh)
	addTask(t, l, high)
	done := addTask(t, l, pipeline.NewDraft("finished"))
	done.SetDone(true)

	l.SetStatusFilter(pipeline.StatusActive)
	assert.Equal(t, []string{"high prio"}, titles(l.View()))

	l.SetStatusFilter(pipeline.StatusDone)
	assert.Equal(t, []string{"finished"}, titles(l.View()))

	l.SetStatusFilter(pipeline.StatusAll)
	p := model.PriorityHigh
	l.SetPriorityFilter(&p)
	assert.Equal(t, []string{"high prio"}, titles(l.View()))
}

func TestSortModes(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	a := pipeline.NewDraft("alpha")
	a.ChooseCategory("Work")
	a.ChoosePriority(model.PriorityLow)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	a.DueDate = &due
	addTask(t, l, a)

	b := pipeline.NewDraft("beta")
	b.ChooseCategory("Health")
	b.ChoosePriority(model.PriorityHigh)
	addTask(t, l, b)

	c := pipeline.NewDraft("gamma")
	c.ChooseCategory("Personal")
	c.ChoosePriority(model.PriorityNormal)
	earlier := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	c.DueDate = &earlier
	addTask(t, l, c)

	l.SetSortMode(pipeline.SortPriority)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, titles(l.View()))

	l.SetSortMode(pipeline.SortCategory)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, titles(l.View()))

	l.SetSortMode(pipeline.SortDueDate)
	// Undated tasks sort last.
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, titles(l.View()))

	l.SetSortMode(pipeline.SortManual)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, titles(l.View()))

	l.SetSortMode(pipeline.SortRecent)
	assert.Equal(t, []string{"gamma", "beta", "alpha"}, titles(l.View()))
}

func TestCanReorder_OnlyUnfilteredManualSort(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	assert.False(t, l.CanReorder(), "default sort is recency")

	l.SetSortMode(pipeline.SortManual)
	assert.True(t, l.CanReorder())

	l.SetSearch("x")
	assert.False(t, l.CanReorder())
	l.SetSearch("   ")
	assert.True(t, l.CanReorder(), "blank search text is not a filter")

	l.SetCategoryFilter("Work")
	assert.False(t, l.CanReorder())
	l.SetCategoryFilter("")

	l.SetStatusFilter(pipeline.StatusActive)
	assert.False(t, l.CanReorder())
}

func TestReorder_MovesAndReassignsContiguously(t *testing.T) {
	l, repo, _ := newPipeline(t)
	load(t, l, 1)

	addTask(t, l, pipeline.NewDraft("a"))
	addTask(t, l, pipeline.NewDraft("b"))
	addTask(t, l, pipeline.NewDraft("c"))
	l.SetSortMode(pipeline.SortManual)

	require.NoError(t, l.Reorder(context.Background(), 2, 0))

	view := l.View()
	assert.Equal(t, []string{"c", "a", "b"}, titles(view))
	for i, task := range view {
		assert.Equal(t, i+1, task.OrderIndex)
	}
	assert.Equal(t, 1, repo.persists)

	// The new order survives a reload.
	fresh := pipeline.New(repo)
	load(t, fresh, 1)
	fresh.SetSortMode(pipeline.SortManual)
	assert.Equal(t, []string{"c", "a", "b"}, titles(fresh.View()))
}

func TestReorder_RejectedWithoutStorageWrite(t *testing.T) {
	l, repo, _ := newPipeline(t)
	load(t, l, 1)

	addTask(t, l, pipeline.NewDraft("a"))
	addTask(t, l, pipeline.NewDraft("b"))

	// Recency sort: ineligible.
	require.NoError(t, l.Reorder(context.Background(), 1, 0))
	assert.Zero(t, repo.persists)
	assert.Equal(t, []string{"b", "a"}, titles(l.View()))

	// Out of bounds under manual sort: ineligible.
	l.SetSortMode(pipeline.SortManual)
	require.NoError(t, l.Reorder(context.Background(), 0, 5))
	assert.Zero(t, repo.persists)
}

func TestLoad_MigratesLegacyOrderOnce(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	// Rows from before manual ordering existed carry OrderIndex 0.
	for _, title := range []string{"oldest", "middle", "newest"} {
		task := &model.Task{UserID: 1, Title: title}
		require.NoError(t, s.AddTask(ctx, task))
		task.OrderIndex = 0
		require.NoError(t, s.UpdateTask(ctx, task))
		time.Sleep(2 * time.Millisecond)
	}

	repo := &recordingRepo{Repository: s}
	l := pipeline.New(repo)
	load(t, l, 1)

	assert.Equal(t, 1, repo.persists)

	l.SetSortMode(pipeline.SortManual)
	view := l.View()
	require.Len(t, view, 3)
	// Fresh indices follow creation order.
	assert.Equal(t, []string{"oldest", "middle", "newest"}, titles(view))
	for i, task := range view {
		assert.Equal(t, i+1, task.OrderIndex)
	}

	// A second load finds no sentinel indices and migrates nothing.
	again := pipeline.New(repo)
	load(t, again, 1)
	assert.Equal(t, 1, repo.persists)
}

func TestTaskChange_WritesThroughAndRebuilds(t *testing.T) {
	l, repo, s := newPipeline(t)
	load(t, l, 1)

	task := addTask(t, l, pipeline.NewDraft("toggle me"))
	l.SetStatusFilter(pipeline.StatusDone)
	require.Empty(t, l.View())

	task.SetDone(true)

	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, []string{"toggle me"}, titles(l.View()))

	stored, err := s.ListTasks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsDone)
}

func TestTaskChange_WriteFailureReportedNotRolledBack(t *testing.T) {
	l, repo, _ := newPipeline(t)
	load(t, l, 1)
	task := addTask(t, l, pipeline.NewDraft("doomed write"))

	var reported error
	l.OnError(func(err error) { reported = err })
	repo.updateErr = errors.New("disk full")

	task.SetDone(true)

	require.ErrorIs(t, reported, repo.updateErr)
	assert.True(t, task.IsDone, "the in-memory change stands")
	assert.Equal(t, 1, repo.updates)
}

func TestRebuild_CoalescesReentrantRequests(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)
	addTask(t, l, pipeline.NewDraft("alpha"))
	addTask(t, l, pipeline.NewDraft("beta"))

	rebuilds := 0
	burst := false
	l.OnViewChanged(func() {
		rebuilds++
		if !burst {
			burst = true
			// A burst of criteria changes from inside a rebuild must
			// coalesce into one trailing rebuild, not five.
			l.SetSearch("a")
			l.SetSearch("al")
			l.SetSearch("alp")
			l.SetSearch("alph")
			l.SetSearch("alpha")
		}
	})

	l.SetStatusFilter(pipeline.StatusAll) // no-op, same value
	assert.Zero(t, rebuilds)

	l.SetSortMode(pipeline.SortManual)

	assert.Equal(t, 2, rebuilds)
	assert.Equal(t, "alpha", l.Criteria().Search)
	assert.Equal(t, []string{"alpha"}, titles(l.View()))
}

func TestDelete_RemovesFromViewAndStorage(t *testing.T) {
	l, _, s := newPipeline(t)
	load(t, l, 1)

	keep := addTask(t, l, pipeline.NewDraft("keep"))
	drop := addTask(t, l, pipeline.NewDraft("drop"))

	require.NoError(t, l.Delete(context.Background(), drop))

	assert.Equal(t, []string{"keep"}, titles(l.View()))
	stored, err := s.ListTasks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, keep.ID, stored[0].ID)
}

func TestClearCompleted_DropsDoneTasks(t *testing.T) {
	l, _, _ := newPipeline(t)
	load(t, l, 1)

	done := addTask(t, l, pipeline.NewDraft("done"))
	done.SetDone(true)
	addTask(t, l, pipeline.NewDraft("open"))

	n, err := l.ClearCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"open"}, titles(l.View()))
}

func TestLoad_ScopedToOwner(t *testing.T) {
	l, _, s := newPipeline(t)
	ctx := context.Background()

	require.NoError(t, s.AddTask(ctx, &model.Task{UserID: 1, Title: "mine"}))
	require.NoError(t, s.AddTask(ctx, &model.Task{UserID: 2, Title: "theirs"}))

	load(t, l, 1)
	assert.Equal(t, []string{"mine"}, titles(l.View()))
}
