package mutate

import (
	"strconv"
	"strings"

	"todomap/internal/model"
)

// Ref is a task together with its position in listing order.
type Ref struct {
	N    int            `json:"n"`
	List model.ListKind `json:"list"`
	Task model.Task     `json:"task"`
}

// Refs lists every task in a fixed order (top priority, main, deleted) numbered from 1.
// Task ids are minted fresh on each load, so one-shot callers refer to tasks by number.
func Refs(doc *model.Document) []Ref {
	if doc == nil {
		return nil
	}
	var out []Ref
	for _, kind := range []model.ListKind{model.ListTopPriority, model.ListMain, model.ListDeleted} {
		for _, t := range *doc.List(kind) {
			out = append(out, Ref{N: len(out) + 1, List: kind, Task: t})
		}
	}
	return out
}

// ResolveTaskID resolves ref to a task id. It accepts, in order: a listing number, a
// full id, a unique id prefix, or a unique case-insensitive title.
func ResolveTaskID(doc *model.Document, ref string) (model.TaskID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ValidationError{Field: "task", Reason: "empty reference"}
	}
	refs := Refs(doc)

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(refs) {
			return refs[n-1].Task.ID, nil
		}
		return "", NotFoundError{Kind: "task", ID: ref}
	}

	var byPrefix, byTitle []model.TaskID
	for _, r := range refs {
		id := r.Task.ID
		if string(id) == ref {
			return id, nil
		}
		if strings.HasPrefix(string(id), ref) {
			byPrefix = append(byPrefix, id)
		}
		if strings.EqualFold(r.Task.Title, ref) {
			byTitle = append(byTitle, id)
		}
	}
	for _, set := range [][]model.TaskID{byPrefix, byTitle} {
		switch len(set) {
		case 0:
			continue
		case 1:
			return set[0], nil
		default:
			return "", ValidationError{Field: "task", Reason: "ambiguous reference: " + ref}
		}
	}
	return "", NotFoundError{Kind: "task", ID: ref}
}
