package main

import (
	"fmt"
	"strings"

	"github.com/mlefevre/todopro/internal/category"
	"github.com/mlefevre/todopro/internal/model"
	"github.com/mlefevre/todopro/internal/pipeline"
	"github.com/mlefevre/todopro/internal/stats"
	"github.com/mlefevre/todopro/internal/theme"
)

func renderTaskList(tasks *pipeline.TaskList, categories *category.Registry) string {
	view := tasks.View()

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Tasks"))
	b.WriteString("\n")

	if len(view) == 0 {
		b.WriteString(theme.HelpStyle.Render("No tasks match the current filters."))
		return theme.PanelStyle.Render(b.String())
	}

	for i, t := range view {
		b.WriteString(taskLine(i, t))
		b.WriteString("  ")
		b.WriteString(theme.CategoryStyle(categories.Color(t.Category)).Render(t.Category))
		if tags := t.Tags(); len(tags) > 0 {
			b.WriteString("  ")
			b.WriteString(theme.TagStyle.Render(strings.Join(tags, " ")))
		}
		if done, total := t.SubtaskCounts(); total > 0 {
			b.WriteString(theme.HelpStyle.Render(fmt.Sprintf("  [%d/%d]", done, total)))
		}
		b.WriteString("\n")
	}

	if !tasks.CanReorder() {
		b.WriteString(theme.HelpStyle.Render("manual reordering disabled while filtered or sorted"))
	}
	return theme.PanelStyle.Render(b.String())
}

func taskLine(i int, t *model.Task) string {
	check := "[ ]"
	title := t.Title
	if t.IsDone {
		check = "[x]"
		title = theme.DoneStyle.Render(title)
	}

	line := fmt.Sprintf("%2d. %s %s %s", i+1, check,
		theme.PriorityStyle(t.Priority).Render(priorityMark(t.Priority)), title)
	if t.DueDate != nil {
		line += theme.HelpStyle.Render(" due " + t.DueDate.Format("2006-01-02"))
	}
	return line
}

func priorityMark(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!"
	case model.PriorityLow:
		return " ."
	default:
		return " -"
	}
}

func renderStats(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total %d   Done %d   Pending %d   (%.0f%% complete)\n",
		s.Total, s.Done, s.Pending, s.DoneRatio()*100)
	fmt.Fprintf(&b, "Priority: %d high, %d normal, %d low\n", s.High, s.Normal, s.Low)

	if len(s.Categories) > 0 {
		b.WriteString("\nBy category:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "  %-12s %d\n", c.Category, c.Count)
		}
	}

	b.WriteString("\nLast 7 days:\n")
	for _, day := range s.Trend {
		bar := strings.Repeat("█", int(day.Ratio*20))
		fmt.Fprintf(&b, "  %s %-20s %d\n", day.Date.Format("Mon"), bar, day.Count)
	}
	return theme.PanelStyle.Render(b.String())
}

func renderCategories(r *category.Registry) string {
	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Categories"))
	b.WriteString("\n")
	for _, name := range r.Categories() {
		styled := theme.CategoryStyle(r.Color(name)).Render(name)
		fmt.Fprintf(&b, "  %s  %s %s\n", styled,
			theme.HelpStyle.Render(r.Icon(name)),
			theme.HelpStyle.Render(r.Color(name)))
	}
	return theme.PanelStyle.Render(b.String())
}
