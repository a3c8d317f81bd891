package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeTags_DropsCaseInsensitiveDuplicates(t *testing.T) {
	got := NormalizeTags([]string{" Work", "#home", "work", "", "HOME", "errands"})
	want := []string{"Work", "home", "errands"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTags = %#v, want %#v", got, want)
	}
	if NormalizeTags([]string{" ", "#"}) != nil {
		t.Fatalf("expected nil for all-empty tags")
	}
}

func TestTaskHasTag(t *testing.T) {
	task := Task{Title: "x", Tags: []string{"People"}}
	if !task.HasTag("people") || !task.HasTag(" PEOPLE ") {
		t.Fatalf("expected case-insensitive match")
	}
	if task.HasTag("") || task.HasTag("peoples") {
		t.Fatalf("unexpected match")
	}
}

func TestParsePriority_LegacyWhenTimeDecodesToNormal(t *testing.T) {
	cases := map[string]Priority{
		"today":             PriorityToday,
		"This Week":         PriorityThisWeek,
		"urgent":            PriorityUrgent,
		"normal":            PriorityNormal,
		"When there's time": PriorityNormal,
		"when-time":         PriorityNormal,
	}
	for in, want := range cases {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePriority(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParsePriority("someday maybe"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}

func TestPriorityJSON_UsesNames(t *testing.T) {
	b, err := json.Marshal(Task{ID: "t1", Title: "x", Priority: PriorityUrgent})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back struct {
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Priority != "urgent" {
		t.Fatalf("priority json = %q, want urgent", back.Priority)
	}

	var task Task
	if err := json.Unmarshal([]byte(`{"title":"y","priority":"When there's time"}`), &task); err != nil {
		t.Fatalf("unmarshal legacy: %v", err)
	}
	if task.Priority != PriorityNormal {
		t.Fatalf("legacy priority = %v, want normal", task.Priority)
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	d := &Document{
		Goals:     "g",
		Tasks:     []Task{{ID: "a", Title: "A", Tags: []string{"x"}}},
		BigThings: []string{"one"},
	}
	c := d.Clone()
	c.Tasks[0].Tags[0] = "changed"
	c.BigThings[0] = "changed"
	if d.Tasks[0].Tags[0] != "x" || d.BigThings[0] != "one" {
		t.Fatalf("clone shares backing arrays with original")
	}
}

func TestDocumentFindTask(t *testing.T) {
	d := &Document{
		TopPriority: []Task{{ID: "top", Title: "T"}},
		Tasks:       []Task{{ID: "main", Title: "M"}},
		Deleted:     []Task{{ID: "gone", Title: "G"}},
	}
	for id, kind := range map[TaskID]ListKind{"top": ListTopPriority, "main": ListMain, "gone": ListDeleted} {
		task, got, ok := d.FindTask(id)
		if !ok || got != kind || task.ID != id {
			t.Fatalf("FindTask(%s) = %v,%v,%v", id, task, got, ok)
		}
	}
	if _, _, ok := d.FindTask("nope"); ok {
		t.Fatalf("expected miss")
	}
	if n := len(d.AllActive()); n != 2 {
		t.Fatalf("AllActive len = %d, want 2", n)
	}
}
