package tui

import (
	"os"
	"strconv"
	"strings"
	"time"

	"todomap/internal/mindmap"
	"todomap/internal/model"
	"todomap/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type viewID int

const (
	viewTasks viewID = iota
	viewGoals
	viewMindMap
)

var viewNames = []string{"Tasks", "Goals", "Mind Map"}

type inputMode int

const (
	modeNone inputMode = iota
	modeAdd
	modeAddTop
	modeRename
	modeRetag
	modeGoalsEdit
)

type reloadTickMsg struct{}

// chromeRows is the header and status lines around the body; help adds more.
const chromeRows = 2

type appModel struct {
	store    store.Store
	doc      *model.Document
	readOnly error
	sess     *session

	width  int
	height int

	view   viewID
	mode   inputMode
	target model.TaskID

	keys     keyMap
	help     help.Model
	tasks    list.Model
	input    textinput.Model
	editor   textarea.Model
	goalsVP  viewport.Model
	mapVP    viewport.Model
	colors   *mindmap.ColorAssigner
	exp      mindmap.Expansion
	mapSel   int
	mapNodes []mindmap.Node
	mapRows  []int

	status    string
	statusErr bool

	lastModTime time.Time
}

// newAppModel builds the model for doc. A non-nil loadErr makes the session read-only:
// nothing is saved over a file that could not be read.
func newAppModel(s store.Store, doc *model.Document, loadErr error, sess *session, exp mindmap.Expansion) appModel {
	if doc == nil {
		doc = &model.Document{}
	}
	m := appModel{
		store:    s,
		doc:      doc,
		readOnly: loadErr,
		sess:     sess,
		keys:     defaultKeyMap(),
		help:     help.New(),
		colors:   mindmap.NewColorAssigner(nil),
		exp:      exp,
		goalsVP:  viewport.New(0, 0),
		mapVP:    viewport.New(0, 0),
	}

	m.input = textinput.New()
	m.input.CharLimit = 500
	m.input.Prompt = "> "

	m.editor = textarea.New()
	m.editor.ShowLineNumbers = false
	m.editor.CharLimit = 0
	m.editor.Placeholder = "**Goal** #tag"

	m.tasks = newTaskList(nil)
	m.lastModTime = fileModTime(s.Path)
	m.refresh()
	if loadErr != nil {
		m.setError("read-only: " + loadErr.Error())
	}
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func fileModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m appModel) bodyHeight() int {
	h := m.height - chromeRows - m.helpLines()
	if m.mode != modeNone && m.mode != modeGoalsEdit {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) helpLines() int {
	if !m.help.ShowAll {
		return 1
	}
	return max(lipgloss.Height(m.help.View(m.keys.helpFor(m.view, m.mode))), 1)
}

// refresh rebuilds every derived view from m.doc, keeping the selection where it can.
func (m *appModel) refresh() {
	var selID model.TaskID
	selIdx := m.tasks.Index()
	if ti, ok := m.tasks.SelectedItem().(taskItem); ok {
		selID = ti.task.ID
	}
	m.layoutPanes()
	items := buildTaskItems(m.doc)
	m.tasks.SetItems(items)
	idx := indexOfTask(items, selID)
	if idx < 0 {
		idx = nearestSelectable(items, selIdx)
	}
	if idx >= 0 {
		m.tasks.Select(idx)
	}
	m.refreshGoals()
	m.refreshMap()
}

func (m *appModel) layoutPanes() {
	h := m.bodyHeight()
	m.tasks.SetSize(m.width, h)
	m.goalsVP.Width, m.goalsVP.Height = m.width, h
	m.mapVP.Width, m.mapVP.Height = m.width, h
	m.editor.SetWidth(max(m.width-2, 10))
	m.editor.SetHeight(max(h-1, 3))
	m.input.Width = max(m.width-len(m.input.Prompt)-2, 10)
	m.help.Width = m.width
}

func (m *appModel) refreshGoals() {
	var b strings.Builder
	if strings.TrimSpace(m.doc.Goals) == "" {
		b.WriteString(styleMuted().Render("No goals yet. Press e to write some."))
	} else {
		b.WriteString(renderMarkdown(m.doc.Goals, max(m.width-2, 10)))
	}
	if len(m.doc.BigThings) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styleSection().Render("Big Things"))
		for i, t := range m.doc.BigThings {
			b.WriteString("\n  " + strconv.Itoa(i+1) + ". " + t)
		}
	}
	m.goalsVP.SetContent(b.String())
}

func (m *appModel) refreshMap() {
	center := mindmap.Point{}
	m.mapNodes = mindmap.Layout(mindmap.BuildFromDocument(m.doc), center, m.exp)
	if m.mapSel >= len(m.mapNodes) {
		m.mapSel = len(m.mapNodes) - 1
	}
	if m.mapSel < 0 {
		m.mapSel = 0
	}
	r := renderMindMap(m.mapNodes, center, m.colors, m.mapSel, m.width)
	m.mapRows = r.NodeRows
	m.mapVP.SetContent(strings.Join(r.Lines, "\n"))
	m.followMapSelection()
}

// followMapSelection scrolls the map so the selected node's row is visible.
func (m *appModel) followMapSelection() {
	if m.mapSel < 0 || m.mapSel >= len(m.mapRows) {
		return
	}
	row := m.mapRows[m.mapSel]
	if row < m.mapVP.YOffset {
		m.mapVP.SetYOffset(row)
	} else if h := m.mapVP.Height; h > 0 && row >= m.mapVP.YOffset+h {
		m.mapVP.SetYOffset(row - h + 1)
	}
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	var tabs []string
	for i, name := range viewNames {
		tabs = append(tabs, styleTab(viewID(i) == m.view).Render(name))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Bold(true).Render("todomap "),
		strings.Join(tabs, "  "),
		styleMuted().Render("  "+m.store.Path),
	)

	var body string
	switch {
	case m.mode == modeGoalsEdit:
		body = m.editor.View()
	case m.view == viewGoals:
		body = m.goalsVP.View()
	case m.view == viewMindMap:
		body = m.mapVP.View()
	default:
		body = m.tasks.View()
		if len(m.tasks.Items()) == 0 {
			body = styleMuted().Render("No tasks. Press a to add one.")
		}
	}

	parts := []string{
		normalizePane(header, m.width, 1),
		normalizePane(body, m.width, m.bodyHeight()),
	}
	if m.mode != modeNone && m.mode != modeGoalsEdit {
		parts = append(parts, normalizePane(m.inputLabel()+m.input.View(), m.width, 1))
	}
	status := m.status
	if m.statusErr {
		status = styleError().Render(status)
	} else if status != "" {
		status = styleMuted().Render(status)
	}
	parts = append(parts,
		normalizePane(status, m.width, 1),
		normalizePane(m.help.View(m.keys.helpFor(m.view, m.mode)), m.width, m.helpLines()),
	)
	return strings.Join(parts, "\n")
}

func (m appModel) inputLabel() string {
	switch m.mode {
	case modeAdd:
		return "New task "
	case modeAddTop:
		return "New top-priority task "
	case modeRename:
		return "Rename "
	case modeRetag:
		return "Tags "
	}
	return ""
}
