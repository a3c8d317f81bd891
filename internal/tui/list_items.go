package tui

import (
	"fmt"

	"todomap/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

// headerItem is a section label in the task list. The cursor never rests on it.
type headerItem struct {
	label string
	count int
}

func (h headerItem) FilterValue() string { return "" }
func (h headerItem) Title() string       { return fmt.Sprintf("%s (%d)", h.label, h.count) }

type taskItem struct {
	task model.Task
	list model.ListKind
}

func (t taskItem) FilterValue() string { return t.task.Title }

// buildTaskItems lays the document out in display sections: top priority, each open
// main-list bucket, completed, then deleted. Empty sections are omitted.
func buildTaskItems(doc *model.Document) []list.Item {
	if doc == nil {
		return nil
	}
	var items []list.Item
	section := func(label string, kind model.ListKind, tasks []model.Task) {
		if len(tasks) == 0 {
			return
		}
		items = append(items, headerItem{label: label, count: len(tasks)})
		for _, t := range tasks {
			items = append(items, taskItem{task: t, list: kind})
		}
	}

	section("Top Priority", model.ListTopPriority, doc.TopPriority)

	buckets := map[model.Priority][]model.Task{}
	var completed []model.Task
	for _, t := range doc.Tasks {
		if t.Completed {
			completed = append(completed, t)
			continue
		}
		buckets[t.Priority] = append(buckets[t.Priority], t)
	}
	for _, p := range model.Priorities {
		section(p.Label(), model.ListMain, buckets[p])
	}
	section("Completed", model.ListMain, completed)
	section("Deleted", model.ListDeleted, doc.Deleted)
	return items
}

func isSelectable(it list.Item) bool {
	_, ok := it.(taskItem)
	return ok
}

// nextSelectable walks from index from in direction dir (+1/-1) to the next task row.
// It returns from when there is none.
func nextSelectable(items []list.Item, from, dir int) int {
	for i := from + dir; i >= 0 && i < len(items); i += dir {
		if isSelectable(items[i]) {
			return i
		}
	}
	return from
}

// nearestSelectable is the first task row at or after i, else the last one before it,
// else -1.
func nearestSelectable(items []list.Item, i int) int {
	if i < 0 {
		i = 0
	}
	if i >= len(items) {
		i = len(items) - 1
	}
	for j := i; j >= 0 && j < len(items); j++ {
		if isSelectable(items[j]) {
			return j
		}
	}
	for j := i - 1; j >= 0; j-- {
		if isSelectable(items[j]) {
			return j
		}
	}
	return -1
}

func indexOfTask(items []list.Item, id model.TaskID) int {
	for i, it := range items {
		if ti, ok := it.(taskItem); ok && ti.task.ID == id {
			return i
		}
	}
	return -1
}

func newTaskList(items []list.Item) list.Model {
	l := list.New(items, newTaskDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"))
	return l
}
