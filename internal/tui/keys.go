package tui

import "github.com/charmbracelet/bubbles/key"

type globalKeys struct {
	NextView key.Binding
	Tasks    key.Binding
	Goals    key.Binding
	MindMap  key.Binding
	Reload   key.Binding
	Backup   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

type taskKeys struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Add      key.Binding
	AddTop   key.Binding
	Rename   key.Binding
	Retag    key.Binding
	Priority key.Binding
	Top      key.Binding
	Delete   key.Binding
	Purge    key.Binding
}

type goalKeys struct {
	Edit key.Binding
	Save key.Binding
}

type mapKeys struct {
	Up          key.Binding
	Down        key.Binding
	Expand      key.Binding
	GoalBox     key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
}

type inputKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

type keyMap struct {
	Global globalKeys
	Tasks  taskKeys
	Goals  goalKeys
	Map    mapKeys
	Input  inputKeys
}

func defaultKeyMap() keyMap {
	b := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}
	return keyMap{
		Global: globalKeys{
			NextView: b("next view", "tab"),
			Tasks:    b("tasks", "1"),
			Goals:    b("goals", "g", "2"),
			MindMap:  b("mind map", "m", "3"),
			Reload:   b("reload", "R"),
			Backup:   b("backup now", "B"),
			Help:     b("more keys", "?"),
			Quit:     b("quit", "q", "ctrl+c"),
		},
		Tasks: taskKeys{
			Up:       b("up", "k", "up"),
			Down:     b("down", "j", "down"),
			Toggle:   b("toggle done", "space", " "),
			Add:      b("add", "a"),
			AddTop:   b("add top", "A"),
			Rename:   b("rename", "e"),
			Retag:    b("tags", "t"),
			Priority: b("cycle priority", "p"),
			Top:      b("promote/demote", "s"),
			Delete:   b("delete/restore", "d"),
			Purge:    b("purge deleted", "X"),
		},
		Goals: goalKeys{
			Edit: b("edit goals", "e"),
			Save: b("save", "ctrl+s"),
		},
		Map: mapKeys{
			Up:          b("up", "k", "up"),
			Down:        b("down", "j", "down"),
			Expand:      b("children", "enter", " "),
			GoalBox:     b("goal box", "o"),
			ExpandAll:   b("expand all", "E"),
			CollapseAll: b("collapse all", "C"),
		},
		Input: inputKeys{
			Submit: b("submit", "enter"),
			Cancel: b("cancel", "esc"),
		},
	}
}

// viewHelp adapts the bindings of one view to help.KeyMap.
type viewHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h viewHelp) ShortHelp() []key.Binding  { return h.short }
func (h viewHelp) FullHelp() [][]key.Binding { return h.full }

func (k keyMap) helpFor(v viewID, mode inputMode) viewHelp {
	g := k.Global
	nav := []key.Binding{g.NextView, g.Tasks, g.Goals, g.MindMap, g.Reload, g.Backup, g.Quit}
	switch {
	case mode == modeGoalsEdit:
		return viewHelp{short: []key.Binding{k.Goals.Save, k.Input.Cancel}}
	case mode != modeNone:
		return viewHelp{short: []key.Binding{k.Input.Submit, k.Input.Cancel}}
	}
	switch v {
	case viewGoals:
		return viewHelp{
			short: []key.Binding{k.Goals.Edit, g.NextView, g.Help, g.Quit},
			full:  [][]key.Binding{{k.Goals.Edit}, nav},
		}
	case viewMindMap:
		m := k.Map
		return viewHelp{
			short: []key.Binding{m.Expand, m.GoalBox, g.NextView, g.Help, g.Quit},
			full:  [][]key.Binding{{m.Up, m.Down, m.Expand, m.GoalBox, m.ExpandAll, m.CollapseAll}, nav},
		}
	default:
		t := k.Tasks
		return viewHelp{
			short: []key.Binding{t.Toggle, t.Add, t.Delete, g.NextView, g.Help, g.Quit},
			full: [][]key.Binding{
				{t.Up, t.Down, t.Toggle, t.Add, t.AddTop},
				{t.Rename, t.Retag, t.Priority, t.Top, t.Delete, t.Purge},
				nav,
			},
		}
	}
}
