package tui

import (
	"errors"
	"strconv"
	"strings"

	"todomap/internal/mindmap"
	"todomap/internal/model"
	"todomap/internal/mutate"
	"todomap/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refresh()
		return m, nil

	case reloadTickMsg:
		if m.mode == modeNone && !m.savePending() && m.externalChange() {
			m.reload("reloaded external changes")
		}
		return m, tickReload()

	case savedMsg:
		m.lastModTime = fileModTime(m.store.Path)
		return m, nil

	case saveErrMsg:
		m.setError("save failed: " + msg.err.Error())
		return m, nil

	case backupMsg:
		switch {
		case msg.err != nil:
			m.setError("backup failed: " + msg.err.Error())
		case msg.path == "":
			m.setStatus("nothing to back up yet")
		default:
			m.setStatus("backed up to " + msg.path)
		}
		return m, nil

	case expSavedMsg:
		if msg.err != nil {
			m.setError("could not remember map state: " + msg.err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeNone:
	case modeGoalsEdit:
		m.editor, cmd = m.editor.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m appModel) savePending() bool {
	return m.sess != nil && m.sess.saver.Pending()
}

func (m *appModel) externalChange() bool {
	mt := fileModTime(m.store.Path)
	if mt.Equal(m.lastModTime) {
		return false
	}
	m.lastModTime = mt
	return true
}

// reload replaces the in-memory document with the file. A readable file lifts
// read-only mode.
func (m *appModel) reload(status string) {
	doc, err := m.store.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.setStatus("document not on disk yet; it is written on the next change")
			return
		}
		m.setError("reload failed: " + err.Error())
		return
	}
	m.doc = doc
	m.readOnly = nil
	m.refresh()
	m.setStatus(status)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.mode {
	case modeGoalsEdit:
		return m.handleEditorKey(msg)
	case modeNone:
	default:
		return m.handleInputKey(msg)
	}

	g := m.keys.Global
	switch {
	case key.Matches(msg, g.Quit):
		return m, tea.Quit
	case key.Matches(msg, g.NextView):
		m.switchView((m.view + 1) % viewID(len(viewNames)))
		return m, nil
	case key.Matches(msg, g.Tasks):
		m.switchView(viewTasks)
		return m, nil
	case key.Matches(msg, g.Goals):
		m.switchView(viewGoals)
		return m, nil
	case key.Matches(msg, g.MindMap):
		m.switchView(viewMindMap)
		return m, nil
	case key.Matches(msg, g.Reload):
		if m.savePending() {
			m.setError("a save is pending; reload in a moment")
			return m, nil
		}
		m.lastModTime = fileModTime(m.store.Path)
		m.reload("reloaded")
		return m, nil
	case key.Matches(msg, g.Backup):
		if m.sess == nil {
			return m, nil
		}
		m.setStatus("backing up…")
		return m, m.sess.backupNow()
	case key.Matches(msg, g.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layoutPanes()
		return m, nil
	}

	switch m.view {
	case viewGoals:
		return m.handleGoalsKey(msg)
	case viewMindMap:
		return m.handleMapKey(msg)
	default:
		return m.handleTasksKey(msg)
	}
}

func (m *appModel) switchView(v viewID) {
	m.view = v
	m.layoutPanes()
}

func (m appModel) selectedTask() (taskItem, bool) {
	ti, ok := m.tasks.SelectedItem().(taskItem)
	return ti, ok
}

func (m appModel) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Tasks
	items := m.tasks.Items()
	switch {
	case key.Matches(msg, k.Up):
		m.tasks.Select(nextSelectable(items, m.tasks.Index(), -1))
		return m, nil
	case key.Matches(msg, k.Down):
		m.tasks.Select(nextSelectable(items, m.tasks.Index(), 1))
		return m, nil
	case key.Matches(msg, k.Add):
		return m.startInput(modeAdd, "", "")
	case key.Matches(msg, k.AddTop):
		return m.startInput(modeAddTop, "", "")
	case key.Matches(msg, k.Purge):
		m.apply(func(doc *model.Document) (string, bool, error) {
			n := mutate.PurgeDeleted(doc)
			return "purged " + strconv.Itoa(n) + " deleted task(s)", n > 0, nil
		})
		return m, nil
	}

	sel, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	id := sel.task.ID
	switch {
	case key.Matches(msg, k.Toggle):
		m.applyToTask(id, "toggled", mutate.ToggleTask)
	case key.Matches(msg, k.Delete):
		if sel.list == model.ListDeleted {
			m.applyToTask(id, "restored", mutate.RestoreTask)
		} else {
			m.applyToTask(id, "deleted", mutate.DeleteTask)
		}
	case key.Matches(msg, k.Priority):
		next := sel.task.Priority.Next()
		m.applyToTask(id, "moved to "+next.Label(), func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
			return mutate.SetPriority(doc, id, next)
		})
	case key.Matches(msg, k.Top):
		if sel.list == model.ListTopPriority {
			m.applyToTask(id, "moved to the main list", mutate.DemoteTop)
		} else {
			m.applyToTask(id, "promoted to top priority", mutate.PromoteTop)
		}
	case key.Matches(msg, k.Rename):
		return m.startInput(modeRename, sel.task.Title, id)
	case key.Matches(msg, k.Retag):
		val := ""
		if len(sel.task.Tags) > 0 {
			val = "#" + strings.Join(sel.task.Tags, " #")
		}
		return m.startInput(modeRetag, val, id)
	}
	return m, nil
}

// apply runs one edit against the document and, when it changed anything, schedules a
// save and rebuilds the views.
func (m *appModel) apply(fn func(doc *model.Document) (status string, changed bool, err error)) bool {
	if m.readOnly != nil {
		m.setError("read-only: " + m.readOnly.Error())
		return false
	}
	status, changed, err := fn(m.doc)
	if err != nil {
		m.setError(err.Error())
		return false
	}
	if changed {
		if m.sess != nil {
			m.sess.saver.Notify(m.doc)
		}
		m.refresh()
		m.setStatus(status)
	} else {
		m.setStatus("no change")
	}
	return true
}

func (m *appModel) applyToTask(id model.TaskID, status string, fn func(*model.Document, model.TaskID) (mutate.Result, error)) bool {
	return m.apply(func(doc *model.Document) (string, bool, error) {
		res, err := fn(doc, id)
		return status, res.Changed, err
	})
}

func (m appModel) startInput(mode inputMode, value string, target model.TaskID) (tea.Model, tea.Cmd) {
	if m.readOnly != nil {
		m.setError("read-only: " + m.readOnly.Error())
		return m, nil
	}
	m.mode = mode
	m.target = target
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = map[inputMode]string{
		modeAdd:    "Title #tag",
		modeAddTop: "Title #tag",
		modeRename: "Title",
		modeRetag:  "#tag #other",
	}[mode]
	m.layoutPanes()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *appModel) endInput() {
	m.mode = modeNone
	m.target = ""
	m.input.Blur()
	m.input.SetValue("")
	m.layoutPanes()
}

func (m appModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Input.Cancel):
		m.endInput()
		m.setStatus("")
		return m, nil
	case key.Matches(msg, m.keys.Input.Submit):
		if m.submitInput(m.input.Value()) {
			m.endInput()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput applies the pending input. It reports false when the edit was rejected
// so the prompt stays open for a correction.
func (m *appModel) submitInput(value string) bool {
	switch m.mode {
	case modeAdd, modeAddTop:
		title, tags := mutate.SplitTitleTags(value)
		in := mutate.TaskInput{Title: title, Tags: tags, Priority: model.PriorityNormal}
		var added model.TaskID
		ok := m.apply(func(doc *model.Document) (string, bool, error) {
			add, where := mutate.AddTask, "added"
			if m.mode == modeAddTop {
				add, where = mutate.AddTopPriority, "added to top priority"
			}
			res, err := add(doc, in)
			added = res.Task.ID
			return where, res.Changed, err
		})
		if ok {
			if i := indexOfTask(m.tasks.Items(), added); i >= 0 {
				m.tasks.Select(i)
			}
		}
		return ok
	case modeRename:
		return m.applyToTask(m.target, "renamed", func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
			return mutate.SetTitle(doc, id, value)
		})
	case modeRetag:
		return m.applyToTask(m.target, "tags updated", func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
			return mutate.SetTags(doc, id, parseTagInput(value))
		})
	}
	return true
}

// parseTagInput reads `#a #b`, `a, b` or `a b` as a tag list.
func parseTagInput(s string) []string {
	var tags []string
	for _, f := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		if f = strings.TrimPrefix(f, "#"); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}

func (m appModel) handleGoalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Goals.Edit) {
		if m.readOnly != nil {
			m.setError("read-only: " + m.readOnly.Error())
			return m, nil
		}
		m.mode = modeGoalsEdit
		m.editor.SetValue(m.doc.Goals)
		m.layoutPanes()
		cmd := m.editor.Focus()
		return m, cmd
	}
	var cmd tea.Cmd
	m.goalsVP, cmd = m.goalsVP.Update(msg)
	return m, cmd
}

func (m appModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Input.Cancel):
		m.mode = modeNone
		m.editor.Blur()
		m.layoutPanes()
		m.setStatus("goals unchanged")
		return m, nil
	case key.Matches(msg, m.keys.Goals.Save):
		text := m.editor.Value()
		if m.apply(func(doc *model.Document) (string, bool, error) {
			changed, err := mutate.SetGoals(doc, text)
			return "goals saved", changed, err
		}) {
			m.mode = modeNone
			m.editor.Blur()
			m.layoutPanes()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m appModel) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Map
	switch {
	case key.Matches(msg, k.Up):
		if m.mapSel > 0 {
			m.mapSel--
			m.refreshMap()
		}
		return m, nil
	case key.Matches(msg, k.Down):
		if m.mapSel < len(m.mapNodes)-1 {
			m.mapSel++
			m.refreshMap()
		}
		return m, nil
	case key.Matches(msg, k.Expand):
		return m.toggleExpansion(false)
	case key.Matches(msg, k.GoalBox):
		return m.toggleExpansion(true)
	case key.Matches(msg, k.ExpandAll):
		m.exp = mindmap.ExpandAll(m.mapNodes)
		m.refreshMap()
		return m, m.sess.saveExpansion(m.exp)
	case key.Matches(msg, k.CollapseAll):
		m.exp = mindmap.Expansion{}
		m.refreshMap()
		return m, m.sess.saveExpansion(m.exp)
	}
	var cmd tea.Cmd
	m.mapVP, cmd = m.mapVP.Update(msg)
	return m, cmd
}

// toggleExpansion flips the selected node's children, or its goal box.
func (m appModel) toggleExpansion(goalBox bool) (tea.Model, tea.Cmd) {
	if m.mapSel < 0 || m.mapSel >= len(m.mapNodes) {
		return m, nil
	}
	id := m.mapNodes[m.mapSel].ID
	if goalBox {
		m.exp.Goals = toggled(m.exp.Goals, id)
	} else {
		m.exp.Nodes = toggled(m.exp.Nodes, id)
	}
	m.refreshMap()
	return m, m.sess.saveExpansion(m.exp)
}

// toggled flips id in set, copying so earlier model values keep their own state.
func toggled(set map[mindmap.NodeID]bool, id mindmap.NodeID) map[mindmap.NodeID]bool {
	out := make(map[mindmap.NodeID]bool, len(set)+1)
	for k, v := range set {
		if v {
			out[k] = true
		}
	}
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}
