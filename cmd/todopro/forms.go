package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mlefevre/todopro/internal/category"
	"github.com/mlefevre/todopro/internal/model"
	"github.com/mlefevre/todopro/internal/pipeline"
)

func credentialsForm(confirm bool) (email, password string, err error) {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Value(&email).
			Validate(validateRequired("Email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(validateRequired("Password")),
	}
	if confirm {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if s != password {
					return errors.New("passwords do not match")
				}
				return nil
			}))
	}
	err = huh.NewForm(huh.NewGroup(fields...)).Run()
	return email, password, err
}

// taskForm collects a new task. Keyword suggestions derived from the title
// pre-fill category, priority, and tags, and anything the user then changes
// wins over the suggestion.
func taskForm(categories *category.Registry) (pipeline.Draft, bool, error) {
	var title string
	titleForm := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&title).
			Validate(validateRequired("Title")),
	))
	if err := titleForm.Run(); err != nil {
		return pipeline.Draft{}, false, formCancel(err)
	}

	draft := pipeline.NewDraft(title)
	pipeline.Suggest(title).Apply(&draft)

	fb := struct {
		category string
		priority model.Priority
		tags     string
		dueDate  string
	}{draft.Category, draft.Priority, draft.TagsRaw, ""}
	if fb.category == "" {
		fb.category = model.DefaultCategory
	}

	detailForm := huh.NewForm(huh.NewGroup(
		categoryField(categories, &fb.category),
		priorityField(&fb.priority),
		huh.NewInput().
			Title("Tags").
			Placeholder("#work, #urgent").
			Value(&fb.tags),
		huh.NewInput().
			Title("Due date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&fb.dueDate).
			Validate(validateOptionalDate),
	))
	if err := detailForm.Run(); err != nil {
		return pipeline.Draft{}, false, formCancel(err)
	}

	draft.ChooseCategory(fb.category)
	draft.ChoosePriority(fb.priority)
	draft.ChooseTags(fb.tags)
	if due := parseDate(fb.dueDate); due != nil {
		draft.DueDate = due
	}
	return draft, true, nil
}

// editTaskForm mutates the task through its Set* methods so the pipeline's
// write-through picks each change up.
func editTaskForm(task *model.Task, categories *category.Registry) error {
	fb := struct {
		title    string
		category string
		priority model.Priority
		tags     string
		dueDate  string
	}{task.Title, task.Category, task.Priority, task.TagsRaw, ""}
	if task.DueDate != nil {
		fb.dueDate = task.DueDate.Format("2006-01-02")
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&fb.title).
			Validate(validateRequired("Title")),
		categoryField(categories, &fb.category),
		priorityField(&fb.priority),
		huh.NewInput().
			Title("Tags").
			Value(&fb.tags),
		huh.NewInput().
			Title("Due date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&fb.dueDate).
			Validate(validateOptionalDate),
	))
	if err := form.Run(); err != nil {
		return formCancel(err)
	}

	task.SetTitle(strings.TrimSpace(fb.title))
	task.SetCategory(fb.category)
	task.SetPriority(fb.priority)
	task.SetTagsRaw(fb.tags)
	task.SetDueDate(parseDate(fb.dueDate))
	return nil
}

func (a *App) editFilters() error {
	c := a.tasks.Criteria()

	fb := struct {
		search   string
		tags     string
		category string
		priority string
		status   pipeline.StatusFilter
		sort     pipeline.SortMode
	}{
		search:   c.Search,
		tags:     c.TagFilter,
		category: c.Category,
		status:   c.Status,
		sort:     c.Sort,
	}
	if c.Priority != nil {
		fb.priority = strconv.Itoa(int(*c.Priority))
	}

	categoryOpts := []huh.Option[string]{huh.NewOption("All categories", "")}
	for _, name := range a.categories.Categories() {
		categoryOpts = append(categoryOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Search").
			Placeholder("title or category").
			Value(&fb.search),
		huh.NewInput().
			Title("Tag filter").
			Placeholder("#work #urgent").
			Value(&fb.tags),
		huh.NewSelect[string]().
			Title("Category").
			Options(categoryOpts...).
			Value(&fb.category),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("All priorities", ""),
				huh.NewOption("High", "2"),
				huh.NewOption("Normal", "1"),
				huh.NewOption("Low", "0"),
			).
			Value(&fb.priority),
		huh.NewSelect[pipeline.StatusFilter]().
			Title("Status").
			Options(
				huh.NewOption("All", pipeline.StatusAll),
				huh.NewOption("Active", pipeline.StatusActive),
				huh.NewOption("Done", pipeline.StatusDone),
			).
			Value(&fb.status),
		huh.NewSelect[pipeline.SortMode]().
			Title("Sort by").
			Options(
				huh.NewOption("Most recent", pipeline.SortRecent),
				huh.NewOption("Manual order", pipeline.SortManual),
				huh.NewOption("Priority", pipeline.SortPriority),
				huh.NewOption("Category", pipeline.SortCategory),
				huh.NewOption("Due date", pipeline.SortDueDate),
			).
			Value(&fb.sort),
	))
	if err := form.Run(); err != nil {
		return formCancel(err)
	}

	a.tasks.SetSearch(fb.search)
	a.tasks.SetTagFilter(fb.tags)
	a.tasks.SetCategoryFilter(fb.category)
	a.tasks.SetPriorityFilter(parsePriorityFilter(fb.priority))
	a.tasks.SetStatusFilter(fb.status)
	a.tasks.SetSortMode(fb.sort)
	return nil
}

// pickTask presents the current view and returns the chosen task, or nil if
// the view is empty or the user backs out.
func pickTask(view []*model.Task, title string) (*model.Task, error) {
	if len(view) == 0 {
		fmt.Println("No tasks to choose from.")
		return nil, nil
	}

	opts := make([]huh.Option[int], 0, len(view)+1)
	for i, t := range view {
		opts = append(opts, huh.NewOption(taskLine(i, t), i))
	}
	opts = append(opts, huh.NewOption("Back", -1))

	choice := -1
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title(title).Options(opts...).Value(&choice),
	))
	if err := form.Run(); err != nil {
		return nil, formCancel(err)
	}
	if choice < 0 {
		return nil, nil
	}
	return view[choice], nil
}

func movePositions(viewLen int) (from, to int, ok bool, err error) {
	if viewLen < 2 {
		fmt.Println("Nothing to move.")
		return 0, 0, false, nil
	}

	var fromText, toText string
	validatePos := func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 1 || n > viewLen {
			return fmt.Errorf("enter a position between 1 and %d", viewLen)
		}
		return nil
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Move task at position").Value(&fromText).Validate(validatePos),
		huh.NewInput().Title("To position").Value(&toText).Validate(validatePos),
	))
	if err := form.Run(); err != nil {
		return 0, 0, false, formCancel(err)
	}

	from, _ = strconv.Atoi(strings.TrimSpace(fromText))
	to, _ = strconv.Atoi(strings.TrimSpace(toText))
	return from - 1, to - 1, true, nil
}

func categoryField(categories *category.Registry, value *string) huh.Field {
	names := categories.Categories()
	opts := make([]huh.Option[string], len(names))
	for i, name := range names {
		opts[i] = huh.NewOption(name, name)
	}
	return huh.NewSelect[string]().Title("Category").Options(opts...).Value(value)
}

func priorityField(value *model.Priority) huh.Field {
	return huh.NewSelect[model.Priority]().
		Title("Priority").
		Options(
			huh.NewOption("High", model.PriorityHigh),
			huh.NewOption("Normal", model.PriorityNormal),
			huh.NewOption("Low", model.PriorityLow),
		).
		Value(value)
}

func parsePriorityFilter(s string) *model.Priority {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	p := model.Priority(n)
	return &p
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &d
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// formCancel maps a user abort to a clean nil so the caller returns to the
// menu instead of treating Esc as a failure.
func formCancel(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
