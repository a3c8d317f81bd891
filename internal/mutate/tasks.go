package mutate

import (
	"strconv"
	"strings"
	"time"

	"todomap/internal/model"
)

// Result describes one task mutation. Task is a copy of the task after the change.
// Callers are responsible for saving the document when Changed is true.
type Result struct {
	Task    model.Task     `json:"task"`
	List    model.ListKind `json:"list"`
	Changed bool           `json:"changed"`
}

// TaskInput is a new task. A zero ID or CreatedAt is filled in.
type TaskInput struct {
	ID        model.TaskID
	Title     string
	Tags      []string
	Priority  model.Priority
	CreatedAt time.Time
}

// SplitTitleTags splits `Buy milk #errands #home` into title and tags, the same way
// a checkbox line is read back from disk.
func SplitTitleTags(s string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(s), " #")
	title := strings.TrimSpace(parts[0])
	if strings.HasPrefix(title, "#") && len(parts) == 1 {
		return "", model.NormalizeTags([]string{title})
	}
	return title, model.NormalizeTags(parts[1:])
}

// AddTask appends a task to the main list.
func AddTask(doc *model.Document, in TaskInput) (Result, error) {
	return addTo(doc, model.ListMain, in)
}

// AddTopPriority appends a task to the top-priority list. Top-priority tasks carry no
// bucket, so Priority is reset to Normal.
func AddTopPriority(doc *model.Document, in TaskInput) (Result, error) {
	in.Priority = model.PriorityNormal
	return addTo(doc, model.ListTopPriority, in)
}

func addTo(doc *model.Document, kind model.ListKind, in TaskInput) (Result, error) {
	if doc == nil {
		return Result{}, ValidationError{Reason: "nil document"}
	}
	title, err := validTitle(in.Title)
	if err != nil {
		return Result{}, err
	}
	tags, err := validTags(in.Tags)
	if err != nil {
		return Result{}, err
	}
	if !in.Priority.Valid() {
		return Result{}, ValidationError{Field: "priority", Reason: "unknown value " + strconv.Itoa(int(in.Priority))}
	}
	if in.ID == "" {
		in.ID = model.NewTaskID()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	t := model.Task{
		ID:        in.ID,
		Title:     title,
		CreatedAt: in.CreatedAt,
		Tags:      tags,
		Priority:  in.Priority,
	}
	list := doc.List(kind)
	*list = append(*list, t)
	return Result{Task: t.Clone(), List: kind, Changed: true}, nil
}

func ToggleTask(doc *model.Document, id model.TaskID) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	t.Completed = !t.Completed
	return Result{Task: t.Clone(), List: kind, Changed: true}, nil
}

func SetCompleted(doc *model.Document, id model.TaskID, completed bool) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	if t.Completed == completed {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	t.Completed = completed
	return Result{Task: t.Clone(), List: kind, Changed: true}, nil
}

// SetTitle renames a task in any list.
func SetTitle(doc *model.Document, id model.TaskID, title string) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	title, err := validTitle(title)
	if err != nil {
		return Result{}, err
	}
	if t.Title == title {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	t.Title = title
	return Result{Task: t.Clone(), List: kind, Changed: true}, nil
}

// DeleteTask moves a main or top-priority task to the deleted list. Deleting an
// already deleted task is a no-op.
func DeleteTask(doc *model.Document, id model.TaskID) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	if kind == model.ListDeleted {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	moved := move(doc, id, kind, model.ListDeleted)
	return Result{Task: moved.Clone(), List: model.ListDeleted, Changed: true}, nil
}

// RestoreTask moves a deleted task back to the main list.
func RestoreTask(doc *model.Document, id model.TaskID) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	if kind != model.ListDeleted {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	moved := move(doc, id, kind, model.ListMain)
	return Result{Task: moved.Clone(), List: model.ListMain, Changed: true}, nil
}

// SetPriority changes the bucket of a main-list task. Top-priority and deleted tasks
// have no bucket on disk.
func SetPriority(doc *model.Document, id model.TaskID, p model.Priority) (Result, error) {
	if !p.Valid() {
		return Result{}, ValidationError{Field: "priority", Reason: "unknown value " + strconv.Itoa(int(p))}
	}
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	if kind != model.ListMain {
		return Result{}, ValidationError{Field: "priority", Reason: "only main-list tasks have a priority"}
	}
	if t.Priority == p {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	t.Priority = p
	return Result{Task: t.Clone(), List: kind, Changed: true}, nil
}

// PromoteTop moves a main-list task to the top-priority list.
func PromoteTop(doc *model.Document, id model.TaskID) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	switch kind {
	case model.ListTopPriority:
		return Result{Task: t.Clone(), List: kind}, nil
	case model.ListDeleted:
		return Result{}, ValidationError{Field: "task", Reason: "deleted tasks cannot be promoted"}
	}
	moved := move(doc, id, kind, model.ListTopPriority)
	moved.Priority = model.PriorityNormal
	return Result{Task: moved.Clone(), List: model.ListTopPriority, Changed: true}, nil
}

// DemoteTop moves a top-priority task back to the main list under the Normal bucket.
func DemoteTop(doc *model.Document, id model.TaskID) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	if kind != model.ListTopPriority {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	moved := move(doc, id, kind, model.ListMain)
	moved.Priority = model.PriorityNormal
	return Result{Task: moved.Clone(), List: model.ListMain, Changed: true}, nil
}

// PurgeDeleted empties the deleted list and reports how many tasks were dropped.
func PurgeDeleted(doc *model.Document) int {
	if doc == nil {
		return 0
	}
	n := len(doc.Deleted)
	doc.Deleted = nil
	return n
}

// move removes id from the from list, appends it to the to list and returns a pointer
// into the destination slice.
func move(doc *model.Document, id model.TaskID, from, to model.ListKind) *model.Task {
	src := doc.List(from)
	var t model.Task
	for i := range *src {
		if (*src)[i].ID == id {
			t = (*src)[i]
			*src = append((*src)[:i:i], (*src)[i+1:]...)
			break
		}
	}
	dst := doc.List(to)
	*dst = append(*dst, t)
	return &(*dst)[len(*dst)-1]
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", ValidationError{Field: "title", Reason: "empty"}
	case strings.ContainsAny(title, "\r\n"):
		return "", ValidationError{Field: "title", Reason: "must be a single line"}
	case strings.Contains(title, " #"):
		return "", ValidationError{Field: "title", Reason: `" #" starts a tag`}
	}
	return title, nil
}

func validTags(tags []string) ([]string, error) {
	norm := model.NormalizeTags(tags)
	for _, tag := range norm {
		switch {
		case strings.ContainsAny(tag, "\r\n"):
			return nil, ValidationError{Field: "tag", Reason: "must be a single line: " + tag}
		case strings.HasPrefix(tag, "#") || strings.Contains(tag, " #"):
			return nil, ValidationError{Field: "tag", Reason: `" #" starts another tag: ` + tag}
		}
	}
	return norm, nil
}
