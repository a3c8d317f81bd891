package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskID is an opaque task identifier. It is stable for the lifetime of a loaded
// document; the markdown file itself does not carry ids.
type TaskID string

func NewTaskID() TaskID {
	return TaskID(uuid.NewString())
}

func (id TaskID) String() string { return string(id) }

type Task struct {
	ID        TaskID    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags,omitempty"`
	Priority  Priority  `json:"priority"`
}

// HasTag reports whether the task carries tag (case-insensitive).
func (t Task) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// NormalizeTags trims tags, drops empty ones and drops case-insensitive duplicates.
// The first spelling of a tag wins and encounter order is preserved.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GoalRecord is a titled, tagged block extracted from the free-text goals section.
type GoalRecord struct {
	Title string   `json:"title"`
	Tag   string   `json:"tag"`
	Items []string `json:"items,omitempty"`
}

// Document is the whole in-memory model of one todo file.
type Document struct {
	Goals       string   `json:"goals"`
	TopPriority []Task   `json:"topPriority"`
	Tasks       []Task   `json:"tasks"`
	Deleted     []Task   `json:"deleted"`
	BigThings   []string `json:"bigThings"`
}

// ListKind names the collection that holds a task.
type ListKind string

const (
	ListMain        ListKind = "main"
	ListTopPriority ListKind = "top"
	ListDeleted     ListKind = "deleted"
)

func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{}
	}
	out := &Document{Goals: d.Goals}
	out.TopPriority = cloneTasks(d.TopPriority)
	out.Tasks = cloneTasks(d.Tasks)
	out.Deleted = cloneTasks(d.Deleted)
	if d.BigThings != nil {
		out.BigThings = append([]string(nil), d.BigThings...)
	}
	return out
}

func cloneTasks(in []Task) []Task {
	if in == nil {
		return nil
	}
	out := make([]Task, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// List returns a pointer to the slice backing kind, or nil for an unknown kind.
func (d *Document) List(kind ListKind) *[]Task {
	switch kind {
	case ListMain:
		return &d.Tasks
	case ListTopPriority:
		return &d.TopPriority
	case ListDeleted:
		return &d.Deleted
	default:
		return nil
	}
}

// FindTask locates a task by id across all lists.
func (d *Document) FindTask(id TaskID) (*Task, ListKind, bool) {
	if d == nil {
		return nil, "", false
	}
	for _, kind := range []ListKind{ListTopPriority, ListMain, ListDeleted} {
		list := d.List(kind)
		for i := range *list {
			if (*list)[i].ID == id {
				return &(*list)[i], kind, true
			}
		}
	}
	return nil, "", false
}

// AllActive returns the tasks that feed the mind map: the main list followed by the
// top-priority list. Deleted tasks are not included.
func (d *Document) AllActive() []Task {
	if d == nil {
		return nil
	}
	out := make([]Task, 0, len(d.Tasks)+len(d.TopPriority))
	out = append(out, d.Tasks...)
	out = append(out, d.TopPriority...)
	return out
}

func (d *Document) IsEmpty() bool {
	return d == nil || (strings.TrimSpace(d.Goals) == "" &&
		len(d.TopPriority) == 0 &&
		len(d.Tasks) == 0 &&
		len(d.Deleted) == 0 &&
		len(d.BigThings) == 0)
}
