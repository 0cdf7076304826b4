// Package stats derives completion summaries and activity trends from a
// loaded task set.
package stats

import (
	"sort"
	"time"

	"github.com/mlefevre/todopro/internal/model"
)

// CategoryCount pairs a category with how many tasks it holds.
type CategoryCount struct {
	Category string
	Count    int
}

// TrendDay is one day of the weekly activity trend. Ratio scales Count
// against the busiest day of the window so charts can normalize bar heights.
type TrendDay struct {
	Date  time.Time
	Count int
	Ratio float64
}

// Summary aggregates a task set: totals, per-priority and per-category
// counts, and a 7-day creation trend ending today.
type Summary struct {
	Total   int
	Done    int
	Pending int

	High   int
	Normal int
	Low    int

	Categories []CategoryCount
	Trend      []TrendDay
}

// DoneRatio returns the completed fraction, 0 when there are no tasks.
func (s Summary) DoneRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total)
}

// Summarize computes a Summary for tasks as of now. Trend days run from six
// days ago through now's calendar day; a task counts toward the day it was
// created. Categories are ordered by count descending, ties keeping
// first-seen order.
func Summarize(tasks []*model.Task, now time.Time) Summary {
	s := Summary{Total: len(tasks)}

	byCategory := make(map[string]int)
	var categoryOrder []string
	for _, t := range tasks {
		if t.IsDone {
			s.Done++
		} else {
			s.Pending++
		}
		switch t.Priority {
		case model.PriorityHigh:
			s.High++
		case model.PriorityLow:
			s.Low++
		default:
			s.Normal++
		}
		if _, seen := byCategory[t.Category]; !seen {
			categoryOrder = append(categoryOrder, t.Category)
		}
		byCategory[t.Category]++
	}

	s.Categories = make([]CategoryCount, 0, len(byCategory))
	for _, category := range categoryOrder {
		s.Categories = append(s.Categories, CategoryCount{Category: category, Count: byCategory[category]})
	}
	sort.SliceStable(s.Categories, func(i, j int) bool {
		return s.Categories[i].Count > s.Categories[j].Count
	})

	s.Trend = trend(tasks, now)
	return s
}

func trend(tasks []*model.Task, now time.Time) []TrendDay {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	days := make([]TrendDay, 7)
	for i := range days {
		days[i].Date = today.AddDate(0, 0, i-6)
	}

	maxDaily := 0
	for _, t := range tasks {
		// Bin by the calendar day in now's location; tasks are stored in
		// UTC and a late-evening creation can belong to the next local day.
		created := t.CreatedAt.In(today.Location())
		createdDay := time.Date(created.Year(), created.Month(), created.Day(),
			0, 0, 0, 0, today.Location())
		offset := int(createdDay.Sub(days[0].Date).Hours() / 24)
		if offset < 0 || offset > 6 {
			continue
		}
		days[offset].Count++
		if days[offset].Count > maxDaily {
			maxDaily = days[offset].Count
		}
	}

	if maxDaily > 0 {
		for i := range days {
			days[i].Ratio = float64(days[i].Count) / float64(maxDaily)
		}
	}
	return days
}
