package tui

import (
	"fmt"
	"io"
	"strings"

	"todomap/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskDelegate renders one line per row: section headers in bold, tasks with a checkbox
// and muted tags.
type taskDelegate struct{}

func newTaskDelegate() taskDelegate { return taskDelegate{} }

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	if width < 4 {
		return
	}
	fmt.Fprint(w, renderTaskRow(item, width, index == m.Index()))
}

func renderTaskRow(item list.Item, width int, selected bool) string {
	switch it := item.(type) {
	case headerItem:
		return styleSection().Render(truncate(it.Title(), width))
	case taskItem:
		prefix := "  "
		if it.list == model.ListTopPriority {
			prefix = glyphStar() + " "
		}
		line := prefix + glyphCheckbox(it.task.Completed) + " " + it.task.Title
		tags := ""
		if len(it.task.Tags) > 0 {
			tags = "  #" + strings.Join(it.task.Tags, " #")
		}
		if selected {
			return styleSelected().Render(padTo(truncate(line+tags, width), width))
		}
		line = truncate(line, width)
		tags = truncate(tags, width-xansi.StringWidth(line))
		if it.task.Completed || it.list == model.ListDeleted {
			return styleMuted().Render(line + tags)
		}
		return line + styleMuted().Render(tags)
	default:
		return truncate(fmt.Sprint(item), width)
	}
}

func padTo(s string, width int) string {
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
