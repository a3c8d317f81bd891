package mindmap

import (
	"sort"
	"strings"

	"todomap/internal/goals"
	"todomap/internal/model"
)

type Kind string

const (
	KindFromGoal  Kind = "goal"
	KindOrphanTag Kind = "orphan"
)

// Child is a read-only projection of a task linked to a node.
type Child struct {
	TaskID    model.TaskID   `json:"taskId"`
	Title     string         `json:"title"`
	Completed bool           `json:"completed"`
	Priority  model.Priority `json:"priority"`
	Position  Point          `json:"position"`
}

type Node struct {
	ID        NodeID   `json:"id"`
	Tag       string   `json:"tag"`
	Title     string   `json:"title"`
	Kind      Kind     `json:"kind"`
	Children  []Child  `json:"children"`
	GoalItems []string `json:"goalItems,omitempty"`

	// Set by Layout.
	Position Point `json:"position"`
	Expanded bool  `json:"expanded"`
	GoalOpen bool  `json:"goalOpen"`
}

func (n Node) clone() Node {
	out := n
	out.Children = append([]Child(nil), n.Children...)
	out.GoalItems = append([]string(nil), n.GoalItems...)
	return out
}

// BuildFromDocument builds the forest from the document's goals and its main and
// top-priority tasks.
func BuildFromDocument(doc *model.Document) []Node {
	if doc == nil {
		return nil
	}
	return Build(doc.Goals, doc.AllActive())
}

// Build derives one node per goal tag and one per orphan tag (a task tag with no goal
// record). Reserved tags never become nodes, and nodes without linked tasks are dropped.
// Output order: goal nodes by tag, then orphan nodes by tag.
func Build(goalsText string, tasks []model.Task) []Node {
	records := goals.WithoutReserved(goals.Extract(goalsText).Records)

	known := make(map[string]bool, len(records))
	nodes := make([]Node, 0, len(records))
	for _, rec := range records {
		known[rec.Tag] = true
		nodes = append(nodes, Node{
			ID:        NodeIDForTag(rec.Tag),
			Tag:       rec.Tag,
			Title:     rec.Title,
			Kind:      KindFromGoal,
			Children:  childrenFor(rec.Tag, tasks),
			GoalItems: append([]string(nil), rec.Items...),
		})
	}

	for _, tag := range orphanTags(tasks, known) {
		nodes = append(nodes, Node{
			ID:       NodeIDForTag(tag),
			Tag:      tag,
			Title:    "#" + tag,
			Kind:     KindOrphanTag,
			Children: childrenFor(tag, tasks),
		})
	}

	out := nodes[:0]
	for _, n := range nodes {
		if len(n.Children) > 0 {
			out = append(out, n)
		}
	}
	return out
}

func childrenFor(tag string, tasks []model.Task) []Child {
	var out []Child
	for _, t := range tasks {
		if !t.HasTag(tag) {
			continue
		}
		out = append(out, Child{
			TaskID:    t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Priority:  t.Priority,
		})
	}
	return out
}

func orphanTags(tasks []model.Task, known map[string]bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tasks {
		for _, tag := range t.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" || known[tag] || seen[tag] || goals.IsReserved(tag) {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
