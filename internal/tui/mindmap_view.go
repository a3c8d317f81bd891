package tui

import (
	"math"
	"strconv"
	"strings"

	"todomap/internal/mindmap"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	// mapRowUnits is how many layout units one terminal row covers.
	mapRowUnits   = 22.0
	minMapWidth   = 40
	minLabelWidth = 8
)

type canvasCell struct {
	r     rune
	style int // index into canvas.styles; 0 is unstyled
}

// canvas is a fixed grid of cells that mind-map elements are painted onto before
// being flattened to styled lines.
type canvas struct {
	w, h   int
	cells  [][]canvasCell
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, styles: []lipgloss.Style{lipgloss.NewStyle()}}
	c.cells = make([][]canvasCell, h)
	for i := range c.cells {
		c.cells[i] = make([]canvasCell, w)
	}
	return c
}

func (c *canvas) addStyle(st lipgloss.Style) int {
	c.styles = append(c.styles, st)
	return len(c.styles) - 1
}

func (c *canvas) at(row, col int) *canvasCell {
	if row < 0 || row >= c.h || col < 0 || col >= c.w {
		return nil
	}
	return &c.cells[row][col]
}

// text writes s starting at col, one cell per rune, clipping at the edges.
func (c *canvas) text(row, col int, s string, style int) {
	for i, r := range []rune(s) {
		if cell := c.at(row, col+i); cell != nil {
			*cell = canvasCell{r: r, style: style}
		}
	}
}

// hline draws between two columns. Crossing a vertical rule makes a junction; any other
// occupied cell is left alone.
func (c *canvas) hline(row, from, to, style int) {
	h, v, j := firstRune(glyphHRule()), firstRune(glyphVRule()), firstRune(glyphJunction())
	if from > to {
		from, to = to, from
	}
	for col := from; col <= to; col++ {
		cell := c.at(row, col)
		switch {
		case cell == nil:
		case cell.r == 0:
			*cell = canvasCell{r: h, style: style}
		case cell.r == v:
			cell.r = j
		}
	}
}

func (c *canvas) vline(col, from, to, style int) {
	h, v, j := firstRune(glyphHRule()), firstRune(glyphVRule()), firstRune(glyphJunction())
	if from > to {
		from, to = to, from
	}
	for row := from; row <= to; row++ {
		cell := c.at(row, col)
		switch {
		case cell == nil:
		case cell.r == 0:
			*cell = canvasCell{r: v, style: style}
		case cell.r == h:
			cell.r = j
		}
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for i, row := range c.cells {
		last := -1
		for j := range row {
			if row[j].r != 0 {
				last = j
			}
		}
		var b strings.Builder
		var run strings.Builder
		runStyle := 0
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.styles[runStyle].Render(run.String()))
			}
			run.Reset()
		}
		for j := 0; j <= last; j++ {
			cell := row[j]
			r := cell.r
			if r == 0 {
				r = ' '
			}
			if cell.style != runStyle {
				flush()
				runStyle = cell.style
			}
			run.WriteRune(r)
		}
		flush()
		out[i] = b.String()
	}
	return out
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

// mapRender is a painted mind map. NodeRows holds the row of each node, in node order,
// so the view can scroll the selection into sight.
type mapRender struct {
	Lines    []string
	NodeRows []int
}

// renderMindMap paints positioned nodes (the output of mindmap.Layout around center)
// into width columns. Layout units map to columns by fitting the bounds to width and
// to rows at mapRowUnits per row.
func renderMindMap(nodes []mindmap.Node, center mindmap.Point, colors *mindmap.ColorAssigner, selected, width int) mapRender {
	if width < minMapWidth {
		width = minMapWidth
	}
	if len(nodes) == 0 {
		msg := "No tagged tasks yet. Tag a task with #tag to grow the map."
		return mapRender{Lines: []string{"", styleMuted().Render(truncate(msg, width))}}
	}

	bounds := mindmap.Bounds(nodes)
	sx := float64(width-1) / bounds.Width()
	col := func(x float64) int { return int(math.Round((x - bounds.Min.X) * sx)) }
	row := func(y float64) int { return int(math.Round((y - bounds.Min.Y) / mapRowUnits)) }
	labelWidth := func(units float64) int {
		if w := int(units * sx); w > minLabelWidth {
			return w
		}
		return minLabelWidth
	}

	cv := newCanvas(width, row(bounds.Max.Y)+1)
	lineStyle := cv.addStyle(styleMuted())
	crow, ccol := row(center.Y), col(center.X)
	out := mapRender{NodeRows: make([]int, len(nodes))}

	// Trunk through the center to every node row.
	lo, hi := crow, crow
	for i, n := range nodes {
		r := row(n.Position.Y)
		out.NodeRows[i] = r
		lo, hi = min(lo, r), max(hi, r)
	}
	type label struct {
		row, col int
		text     string
		style    int
	}
	var labels []label
	labels = append(labels, label{crow, ccol, glyphCenter(), cv.addStyle(lipgloss.NewStyle().Foreground(colorAccent).Bold(true))})
	cv.vline(ccol, lo, hi, lineStyle)

	for i, n := range nodes {
		color := branchColor(colors.ColorFor(n.Tag))
		nodeStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
		if i == selected {
			nodeStyle = nodeStyle.Reverse(true)
		}

		twisty := glyphTwistyCollapsed()
		if n.Expanded {
			twisty = glyphTwistyExpanded()
		}
		text := truncate(twisty+" "+n.Title+" ("+strconv.Itoa(len(n.Children))+")", labelWidth(mindmap.NodeWidth))
		w := xansi.StringWidth(text)
		r := out.NodeRows[i]
		start := col(n.Position.X) - w/2
		right := n.Position.X >= center.X

		edge := start + w
		if right {
			cv.hline(r, ccol, start-1, lineStyle)
		} else {
			cv.hline(r, edge, ccol, lineStyle)
		}
		labels = append(labels, label{r, start, text, cv.addStyle(nodeStyle)})

		if n.Expanded {
			childStyle := cv.addStyle(lipgloss.NewStyle().Foreground(color))
			doneStyle := cv.addStyle(styleMuted())
			for _, c := range n.Children {
				ct := truncate(glyphCheckbox(c.Completed)+" "+c.Title, labelWidth(mindmap.ChildWidth))
				cw := xansi.StringWidth(ct)
				cr := row(c.Position.Y)
				cstart := col(c.Position.X) - cw/2
				from, to := edge, cstart-1
				if !right {
					from, to = start-1, cstart+cw
				}
				mid := (from + to) / 2
				cv.hline(r, from, mid, lineStyle)
				cv.vline(mid, r, cr, lineStyle)
				cv.hline(cr, mid, to, lineStyle)
				st := childStyle
				if c.Completed {
					st = doneStyle
				}
				labels = append(labels, label{cr, cstart, ct, st})
			}
		}

		if box, ok := mindmap.GoalBoxRect(n); ok {
			goalStyle := cv.addStyle(faintIfDark(lipgloss.NewStyle().Foreground(color)))
			top, left := row(box.Min.Y), col(box.Min.X)
			for j, item := range n.GoalItems {
				labels = append(labels, label{top + j, left, truncate(glyphBullet()+" "+item, labelWidth(mindmap.GoalBoxWidth)), goalStyle})
			}
		}
	}

	// Labels go on last so connectors never cut through text.
	for _, l := range labels {
		cv.text(l.row, l.col, l.text, l.style)
	}
	out.Lines = cv.lines()
	return out
}
