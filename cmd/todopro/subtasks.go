package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mlefevre/todopro/internal/model"
)

// manageSubtasks edits a task's subtask list interactively. The accumulated
// list is written back through SetSubtasks on exit, so a single change event
// carries the whole edit to storage.
func manageSubtasks(task *model.Task) error {
	items := task.Subtasks()
	for {
		var choice string
		menu := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Subtasks — %s", task.Title)).
				Options(
					huh.NewOption("Add", "add"),
					huh.NewOption("Toggle", "toggle"),
					huh.NewOption("Remove", "remove"),
					huh.NewOption("Done", "done"),
				).
				Value(&choice),
		))
		if err := menu.Run(); err != nil {
			return formCancel(err)
		}

		switch choice {
		case "add":
			var title string
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Subtask title").Value(&title),
			))
			if err := form.Run(); err != nil {
				return formCancel(err)
			}
			items = appendSubtask(items, title)
		case "toggle":
			i, err := pickSubtask(items, "Toggle which subtask?")
			if err != nil {
				return err
			}
			items = toggleSubtask(items, i)
		case "remove":
			i, err := pickSubtask(items, "Remove which subtask?")
			if err != nil {
				return err
			}
			items = removeSubtask(items, i)
		case "done":
			task.SetSubtasks(items)
			return nil
		}
	}
}

func pickSubtask(items []model.Subtask, title string) (int, error) {
	if len(items) == 0 {
		fmt.Println("No subtasks yet.")
		return -1, nil
	}

	opts := make([]huh.Option[int], 0, len(items)+1)
	for i, item := range items {
		check := "[ ]"
		if item.IsDone {
			check = "[x]"
		}
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s", check, item.Title), i))
	}
	opts = append(opts, huh.NewOption("Back", -1))

	choice := -1
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title(title).Options(opts...).Value(&choice),
	))
	if err := form.Run(); err != nil {
		return -1, formCancel(err)
	}
	return choice, nil
}

// appendSubtask adds an open subtask with the trimmed title; blank titles
// are ignored.
func appendSubtask(items []model.Subtask, title string) []model.Subtask {
	title = strings.TrimSpace(title)
	if title == "" {
		return items
	}
	return append(items, model.Subtask{Title: title})
}

// toggleSubtask flips the done flag at i; out-of-range indexes are no-ops.
func toggleSubtask(items []model.Subtask, i int) []model.Subtask {
	if i < 0 || i >= len(items) {
		return items
	}
	items[i].IsDone = !items[i].IsDone
	return items
}

// removeSubtask drops the entry at i; out-of-range indexes are no-ops.
func removeSubtask(items []model.Subtask, i int) []model.Subtask {
	if i < 0 || i >= len(items) {
		return items
	}
	return append(items[:i], items[i+1:]...)
}
