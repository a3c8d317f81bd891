package mutate

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"todomap/internal/markdown"
	"todomap/internal/model"
)

func sampleDoc() *model.Document {
	return &model.Document{
		TopPriority: []model.Task{{ID: "top-1", Title: "Focus"}},
		Tasks: []model.Task{
			{ID: "main-1", Title: "Fix bug", Priority: model.PriorityUrgent, Tags: []string{"work"}},
			{ID: "main-2", Title: "Laundry"},
		},
		Deleted: []model.Task{{ID: "del-1", Title: "Old"}},
	}
}

func TestAddTask_ValidatesAndNormalizes(t *testing.T) {
	doc := &model.Document{}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	res, err := AddTask(doc, TaskInput{ID: "n1", Title: "  Buy milk ", Tags: []string{"#errands", "Errands", "home"}, Priority: model.PriorityToday, CreatedAt: now})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if !res.Changed || res.List != model.ListMain {
		t.Fatalf("result = %+v", res)
	}
	got := doc.Tasks[0]
	if got.Title != "Buy milk" || !reflect.DeepEqual(got.Tags, []string{"errands", "home"}) || !got.CreatedAt.Equal(now) {
		t.Fatalf("task = %+v", got)
	}

	bad := []TaskInput{
		{Title: "   "},
		{Title: "two\nlines"},
		{Title: "has #tag inside"},
		{Title: "ok", Tags: []string{"a #b"}},
		{Title: "ok", Tags: []string{"two\nlines"}},
		{Title: "ok", Priority: model.Priority(42)},
	}
	for _, in := range bad {
		var verr ValidationError
		if _, err := AddTask(doc, in); !errors.As(err, &verr) {
			t.Fatalf("AddTask(%+v) err = %v, want ValidationError", in, err)
		}
	}
	if len(doc.Tasks) != 1 {
		t.Fatalf("invalid input should not change the document")
	}
}

func TestAddTopPriority_ResetsPriorityAndMintsID(t *testing.T) {
	doc := &model.Document{}
	res, err := AddTopPriority(doc, TaskInput{Title: "Ship", Priority: model.PriorityUrgent})
	if err != nil {
		t.Fatalf("AddTopPriority: %v", err)
	}
	if res.Task.ID == "" || res.Task.CreatedAt.IsZero() || res.Task.Priority != model.PriorityNormal {
		t.Fatalf("task = %+v", res.Task)
	}
	if len(doc.TopPriority) != 1 {
		t.Fatalf("top = %+v", doc.TopPriority)
	}
}

func TestToggleAndSetCompleted(t *testing.T) {
	doc := sampleDoc()
	if res, err := ToggleTask(doc, "top-1"); err != nil || !res.Task.Completed {
		t.Fatalf("toggle: %+v %v", res, err)
	}
	if res, _ := SetCompleted(doc, "top-1", true); res.Changed {
		t.Fatalf("SetCompleted should be a no-op")
	}
	if res, _ := SetCompleted(doc, "top-1", false); !res.Changed || doc.TopPriority[0].Completed {
		t.Fatalf("SetCompleted(false) did not apply")
	}
	var nf NotFoundError
	if _, err := ToggleTask(doc, "nope"); !errors.As(err, &nf) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	doc := sampleDoc()
	res, err := DeleteTask(doc, "main-1")
	if err != nil || !res.Changed || res.List != model.ListDeleted {
		t.Fatalf("delete: %+v %v", res, err)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].ID != "main-2" || len(doc.Deleted) != 2 {
		t.Fatalf("doc after delete = %+v", doc)
	}
	if res, _ := DeleteTask(doc, "main-1"); res.Changed {
		t.Fatalf("second delete should be a no-op")
	}
	res, err = RestoreTask(doc, "main-1")
	if err != nil || !res.Changed || res.List != model.ListMain {
		t.Fatalf("restore: %+v %v", res, err)
	}
	if _, kind, _ := doc.FindTask("main-1"); kind != model.ListMain {
		t.Fatalf("restored task is in %q", kind)
	}
	if PurgeDeleted(doc) != 1 || len(doc.Deleted) != 0 {
		t.Fatalf("purge failed: %+v", doc.Deleted)
	}
}

func TestPriorityAndTopMoves(t *testing.T) {
	doc := sampleDoc()
	if res, err := SetPriority(doc, "main-2", model.PriorityThisWeek); err != nil || !res.Changed {
		t.Fatalf("SetPriority: %+v %v", res, err)
	}
	var verr ValidationError
	if _, err := SetPriority(doc, "top-1", model.PriorityToday); !errors.As(err, &verr) {
		t.Fatalf("priority on top task: %v", err)
	}

	res, err := PromoteTop(doc, "main-1")
	if err != nil || res.List != model.ListTopPriority || res.Task.Priority != model.PriorityNormal {
		t.Fatalf("promote: %+v %v", res, err)
	}
	if _, err := PromoteTop(doc, "del-1"); !errors.As(err, &verr) {
		t.Fatalf("promote deleted: %v", err)
	}
	res, err = DemoteTop(doc, "top-1")
	if err != nil || res.List != model.ListMain {
		t.Fatalf("demote: %+v %v", res, err)
	}
	if len(doc.TopPriority) != 1 || doc.TopPriority[0].ID != "main-1" {
		t.Fatalf("top = %+v", doc.TopPriority)
	}
}

func TestTags(t *testing.T) {
	doc := sampleDoc()
	if res, err := AddTag(doc, "main-1", "#Bug"); err != nil || !reflect.DeepEqual(res.Task.Tags, []string{"work", "Bug"}) {
		t.Fatalf("AddTag: %+v %v", res, err)
	}
	if res, _ := AddTag(doc, "main-1", "WORK"); res.Changed {
		t.Fatalf("duplicate tag should be a no-op")
	}
	if res, _ := RemoveTag(doc, "main-1", "bug"); !reflect.DeepEqual(res.Task.Tags, []string{"work"}) {
		t.Fatalf("RemoveTag: %+v", res.Task.Tags)
	}
	if res, _ := SetTags(doc, "main-1", nil); !res.Changed || res.Task.Tags != nil {
		t.Fatalf("SetTags(nil): %+v", res)
	}
}

func TestTags_KeepSpacedTagsFromDisk(t *testing.T) {
	doc := markdown.Parse("### 🟡 Normal\n- [ ] Title #my tag\n")
	if len(doc.Tasks) != 1 || !reflect.DeepEqual(doc.Tasks[0].Tags, []string{"my tag"}) {
		t.Fatalf("parsed tasks = %+v", doc.Tasks)
	}
	id := doc.Tasks[0].ID

	res, err := AddTag(doc, id, "x")
	if err != nil || !reflect.DeepEqual(res.Task.Tags, []string{"my tag", "x"}) {
		t.Fatalf("AddTag: %+v %v", res.Task.Tags, err)
	}
	if res, err := RemoveTag(doc, id, "#My Tag"); err != nil || !reflect.DeepEqual(res.Task.Tags, []string{"x"}) {
		t.Fatalf("RemoveTag: %+v %v", res.Task.Tags, err)
	}
	if res, err := AddTag(doc, id, "another one"); err != nil || !res.Changed {
		t.Fatalf("AddTag(spaced): %+v %v", res, err)
	}
	if got := markdown.CheckboxLine(doc.Tasks[0]); got != "- [ ] Title #x #another one" {
		t.Fatalf("line = %q", got)
	}

	var verr ValidationError
	if _, err := AddTag(doc, id, "a #b"); !errors.As(err, &verr) {
		t.Fatalf("AddTag(a #b) err = %v, want ValidationError", err)
	}
}

func TestGoalsAndBigThings(t *testing.T) {
	doc := &model.Document{}
	if changed, _ := SetGoals(doc, "\r\n**Work** #work\r\n"); !changed || doc.Goals != "**Work** #work" {
		t.Fatalf("goals = %q", doc.Goals)
	}
	if _, err := AddBigThing(doc, "Run a marathon"); err != nil {
		t.Fatalf("AddBigThing: %v", err)
	}
	if _, err := AddBigThing(doc, "Write a book"); err != nil {
		t.Fatalf("AddBigThing: %v", err)
	}
	if _, err := AddBigThing(doc, " "); err == nil {
		t.Fatalf("expected error for empty big thing")
	}
	got, err := RemoveBigThing(doc, 1)
	if err != nil || got != "Run a marathon" || !reflect.DeepEqual(doc.BigThings, []string{"Write a book"}) {
		t.Fatalf("RemoveBigThing: %q %v %#v", got, err, doc.BigThings)
	}
	if _, err := RemoveBigThing(doc, 5); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestResolveTaskID(t *testing.T) {
	doc := &model.Document{
		TopPriority: []model.Task{{ID: "abc-111", Title: "Focus"}},
		Tasks: []model.Task{
			{ID: "abd-222", Title: "Laundry"},
			{ID: "xyz-333", Title: "laundry"},
		},
	}
	cases := []struct {
		ref  string
		want model.TaskID
		ok   bool
	}{
		{"1", "abc-111", true},
		{"3", "xyz-333", true},
		{"4", "", false},
		{"abd-222", "abd-222", true},
		{"abc", "abc-111", true},
		{"ab", "", false},
		{"focus", "abc-111", true},
		{"laundry", "", false},
		{"missing", "", false},
	}
	for _, tc := range cases {
		got, err := ResolveTaskID(doc, tc.ref)
		if tc.ok != (err == nil) || got != tc.want {
			t.Fatalf("ResolveTaskID(%q) = %q, %v", tc.ref, got, err)
		}
	}
}

// Every state reachable through the mutation API must serialize to a fixed point.
func TestMutationsKeepSerializeIdempotent(t *testing.T) {
	doc := &model.Document{}
	ids := []model.TaskID{}
	add := func(in TaskInput) {
		res, err := AddTask(doc, in)
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		ids = append(ids, res.Task.ID)
	}
	add(TaskInput{Title: "Write report", Tags: []string{"work"}, Priority: model.PriorityUrgent})
	add(TaskInput{Title: "Call mom", Priority: model.PriorityToday})
	add(TaskInput{Title: "Plan trip", Tags: []string{"travel", "fun"}, Priority: model.PriorityThisWeek})
	add(TaskInput{Title: "Stretch"})
	_, _ = SetGoals(doc, "**Work** #work\n- ship it\n### looks like a heading")
	_, _ = AddBigThing(doc, "Learn piano")
	_, _ = ToggleTask(doc, ids[3])
	_, _ = PromoteTop(doc, ids[1])
	_, _ = DeleteTask(doc, ids[2])
	_, _ = AddTag(doc, ids[0], "Q3")

	first := markdown.Serialize(doc)
	second := markdown.Serialize(markdown.Parse(first))
	if first != second {
		t.Fatalf("not idempotent:\n%s\n---\n%s", first, second)
	}
}

func TestSplitTitleTags(t *testing.T) {
	title, tags := SplitTitleTags("  Buy milk #errands #Home #home ")
	if title != "Buy milk" || !reflect.DeepEqual(tags, []string{"errands", "Home"}) {
		t.Fatalf("got %q %#v", title, tags)
	}
	if title, tags := SplitTitleTags("#solo"); title != "" || !reflect.DeepEqual(tags, []string{"solo"}) {
		t.Fatalf("got %q %#v", title, tags)
	}
}

func TestSetTitle(t *testing.T) {
	doc := sampleDoc()
	res, err := SetTitle(doc, "del-1", "  Older ")
	if err != nil || !res.Changed || res.List != model.ListDeleted || doc.Deleted[0].Title != "Older" {
		t.Fatalf("SetTitle = %+v, %v", res, err)
	}
	if res, _ := SetTitle(doc, "del-1", "Older"); res.Changed {
		t.Fatalf("same title should be a no-op")
	}
	var verr ValidationError
	if _, err := SetTitle(doc, "main-1", "x #y"); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	var nf NotFoundError
	if _, err := SetTitle(doc, "missing", "x"); !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
