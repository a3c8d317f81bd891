package publish

import (
	"bytes"
	"strings"

	"todomap/internal/mindmap"
	"todomap/internal/model"
)

type RenderOptions struct {
	Title            string
	IncludeCompleted bool
}

// RenderMindMapMarkdown renders the forest as a read-only outline. It is a derived
// view; loading it back as a todo document is not supported.
func RenderMindMapMarkdown(nodes []mindmap.Node, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Mind Map"
	}
	writeLn("# " + title)

	if len(nodes) == 0 {
		writeLn("")
		writeLn("_No tagged tasks._")
		return buf.String()
	}

	for _, n := range nodes {
		writeLn("")
		heading := strings.TrimSpace(n.Title)
		if n.Kind == mindmap.KindFromGoal {
			heading += " (#" + n.Tag + ")"
		}
		writeLn("## " + heading)

		if len(n.GoalItems) > 0 {
			writeLn("")
			for _, item := range n.GoalItems {
				writeLn("> " + strings.TrimSpace(item))
			}
		}

		writeLn("")
		shown := 0
		for _, c := range n.Children {
			if c.Completed && !opt.IncludeCompleted {
				continue
			}
			writeLn(childLine(c))
			shown++
		}
		if shown == 0 {
			writeLn("_All linked tasks completed._")
		}
	}
	return buf.String()
}

func childLine(c mindmap.Child) string {
	box := "- [ ] "
	if c.Completed {
		box = "- [x] "
	}
	line := box + strings.TrimSpace(c.Title)
	if c.Priority != model.PriorityNormal {
		line += " (" + c.Priority.Label() + ")"
	}
	return line
}
