package tui

import (
	"testing"

	"todomap/internal/model"
)

func sectionDoc() *model.Document {
	return &model.Document{
		TopPriority: []model.Task{{ID: "top", Title: "Ship release"}},
		Tasks: []model.Task{
			{ID: "n1", Title: "Laundry", Priority: model.PriorityNormal},
			{ID: "u1", Title: "Fix bug", Priority: model.PriorityUrgent},
			{ID: "d1", Title: "Done thing", Priority: model.PriorityToday, Completed: true},
		},
		Deleted: []model.Task{{ID: "x1", Title: "Old"}},
	}
}

func TestBuildTaskItems_Sections(t *testing.T) {
	items := buildTaskItems(sectionDoc())
	want := []string{
		"Top Priority (1)", "top",
		"Urgent (1)", "u1",
		"Normal (1)", "n1",
		"Completed (1)", "d1",
		"Deleted (1)", "x1",
	}
	if len(items) != len(want) {
		t.Fatalf("items = %d, want %d", len(items), len(want))
	}
	for i, it := range items {
		var got string
		switch it := it.(type) {
		case headerItem:
			got = it.Title()
		case taskItem:
			got = string(it.task.ID)
		}
		if got != want[i] {
			t.Fatalf("items[%d] = %q, want %q", i, got, want[i])
		}
	}
	if ti := items[9].(taskItem); ti.list != model.ListDeleted {
		t.Fatalf("deleted row list = %q", ti.list)
	}
}

func TestSelectableNavigationSkipsHeaders(t *testing.T) {
	items := buildTaskItems(sectionDoc())
	if got := nearestSelectable(items, 0); got != 1 {
		t.Fatalf("nearestSelectable(0) = %d, want 1", got)
	}
	if got := nextSelectable(items, 1, 1); got != 3 {
		t.Fatalf("down from top task = %d, want 3", got)
	}
	if got := nextSelectable(items, 3, -1); got != 1 {
		t.Fatalf("up from urgent = %d, want 1", got)
	}
	if got := nextSelectable(items, 1, -1); got != 1 {
		t.Fatalf("up from first task should stay; got %d", got)
	}
	if got := nextSelectable(items, 9, 1); got != 9 {
		t.Fatalf("down from last task should stay; got %d", got)
	}
	if got := nearestSelectable(nil, 3); got != -1 {
		t.Fatalf("empty list = %d, want -1", got)
	}
	if got := indexOfTask(items, "n1"); got != 5 {
		t.Fatalf("indexOfTask = %d, want 5", got)
	}
}

func TestParseTagInput(t *testing.T) {
	got := parseTagInput("#work, home  #  ")
	if len(got) != 2 || got[0] != "work" || got[1] != "home" {
		t.Fatalf("tags = %#v", got)
	}
}
