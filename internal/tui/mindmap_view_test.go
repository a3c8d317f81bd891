package tui

import (
	"strings"
	"testing"

	"todomap/internal/mindmap"
	"todomap/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

func mapFixture() []mindmap.Node {
	return mindmap.Build("**Work** #work\n- Ship it", []model.Task{
		{ID: "1", Title: "Fix bug", Tags: []string{"work"}},
		{ID: "2", Title: "Deploy", Tags: []string{"work"}, Completed: true},
		{ID: "3", Title: "Laundry", Tags: []string{"home"}},
	})
}

func plain(lines []string) string {
	return xansi.Strip(strings.Join(lines, "\n"))
}

func TestRenderMindMap_CollapsedShowsNodesOnly(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	nodes := mindmap.Layout(mapFixture(), mindmap.Point{}, mindmap.Expansion{})
	r := renderMindMap(nodes, mindmap.Point{}, mindmap.NewColorAssigner(nil), 0, 100)
	out := plain(r.Lines)

	for _, want := range []string{"> Work (2)", "> #home (1)", "@"} {
		if !strings.Contains(out, want) {
			t.Fatalf("map missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Fix bug") {
		t.Fatalf("collapsed node should hide its children:\n%s", out)
	}
	if len(r.NodeRows) != 2 {
		t.Fatalf("node rows = %v", r.NodeRows)
	}
	for i, row := range r.NodeRows {
		if row < 0 || row >= len(r.Lines) {
			t.Fatalf("node %d row %d outside %d lines", i, row, len(r.Lines))
		}
	}
	for i, ln := range r.Lines {
		if w := xansi.StringWidth(ln); w > 100 {
			t.Fatalf("line %d is %d columns wide", i, w)
		}
	}
}

func TestRenderMindMap_ExpandedShowsChildrenAndGoalBox(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	built := mapFixture()
	exp := mindmap.Expansion{
		Nodes: map[mindmap.NodeID]bool{built[0].ID: true},
		Goals: map[mindmap.NodeID]bool{built[0].ID: true},
	}
	nodes := mindmap.Layout(built, mindmap.Point{}, exp)
	r := renderMindMap(nodes, mindmap.Point{}, mindmap.NewColorAssigner(nil), 0, 160)
	out := plain(r.Lines)

	for _, want := range []string{"v Work (2)", "[ ] Fix bug", "[x] Deploy", "* Ship it"} {
		if !strings.Contains(out, want) {
			t.Fatalf("map missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "|") || !strings.Contains(out, "-") {
		t.Fatalf("expected connectors:\n%s", out)
	}
	if strings.Contains(out, "Laundry") {
		t.Fatalf("home is still collapsed:\n%s", out)
	}
}

func TestRenderMindMap_Empty(t *testing.T) {
	r := renderMindMap(nil, mindmap.Point{}, mindmap.NewColorAssigner(nil), 0, 80)
	if len(r.NodeRows) != 0 || !strings.Contains(plain(r.Lines), "No tagged tasks") {
		t.Fatalf("empty render = %#v", r)
	}
}

func TestCanvas_LinesCrossAsJunction(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	cv := newCanvas(5, 3)
	cv.vline(2, 0, 2, 0)
	cv.hline(1, 0, 4, 0)
	cv.text(0, 0, "ab", 0)
	got := cv.lines()
	want := []string{"ab|", "--+--", "  |"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
