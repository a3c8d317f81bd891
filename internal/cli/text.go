package cli

import (
	"fmt"
	"strings"

	"todomap/internal/markdown"
	"todomap/internal/model"
	"todomap/internal/mutate"
)

// Payload types with a hand-written --format text rendering.

type taskListing []mutate.Ref

func (l taskListing) Text() string {
	if len(l) == 0 {
		return "(no tasks)"
	}
	var b strings.Builder
	for _, r := range l {
		fmt.Fprintf(&b, "%3d  %s%s\n", r.N, markdown.CheckboxLine(r.Task), taskSuffix(r.List, r.Task))
	}
	return b.String()
}

type taskChange mutate.Result

func (c taskChange) Text() string {
	verb := "unchanged"
	if c.Changed {
		verb = "updated"
	}
	return verb + ": " + markdown.CheckboxLine(c.Task) + taskSuffix(c.List, c.Task)
}

func taskSuffix(list model.ListKind, t model.Task) string {
	switch list {
	case model.ListTopPriority:
		return "  [top]"
	case model.ListDeleted:
		return "  [deleted]"
	}
	if t.Priority != model.PriorityNormal {
		return "  (" + t.Priority.Label() + ")"
	}
	return ""
}

type goalsView struct {
	Goals string `json:"goals"`
}

func (g goalsView) Text() string {
	if strings.TrimSpace(g.Goals) == "" {
		return "(no goals)"
	}
	return g.Goals
}

type bigThingsView []string

func (v bigThingsView) Text() string {
	if len(v) == 0 {
		return "(no big things)"
	}
	var b strings.Builder
	for i, s := range v {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

type goalRecords []model.GoalRecord

func (rs goalRecords) Text() string {
	if len(rs) == 0 {
		return "(no goal records)"
	}
	var b strings.Builder
	for _, r := range rs {
		fmt.Fprintf(&b, "#%s  %s\n", r.Tag, r.Title)
		for _, it := range r.Items {
			fmt.Fprintf(&b, "    - %s\n", it)
		}
	}
	return b.String()
}
