package mutate

import (
	"strings"

	"todomap/internal/model"
)

// SetTags replaces a task's tags. Duplicates (case-insensitive) collapse to the first
// spelling.
func SetTags(doc *model.Document, id model.TaskID, tags []string) (Result, error) {
	t, kind, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	norm, err := validTags(tags)
	if err != nil {
		return Result{}, err
	}
	if sameTags(t.Tags, norm) {
		return Result{Task: t.Clone(), List: kind}, nil
	}
	t.Tags = norm
	return Result{Task: t.Clone(), List: kind, Changed: true}, nil
}

func AddTag(doc *model.Document, id model.TaskID, tag string) (Result, error) {
	t, _, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	next := append(append([]string(nil), t.Tags...), tag)
	return SetTags(doc, id, next)
}

// RemoveTag drops tag (case-insensitive). Removing an absent tag is a no-op.
func RemoveTag(doc *model.Document, id model.TaskID, tag string) (Result, error) {
	t, _, ok := doc.FindTask(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "task", ID: string(id)}
	}
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	next := make([]string, 0, len(t.Tags))
	for _, have := range t.Tags {
		if !strings.EqualFold(have, tag) {
			next = append(next, have)
		}
	}
	return SetTags(doc, id, next)
}

func sameTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
