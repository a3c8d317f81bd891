package mindmap

import (
	"fmt"
	"reflect"
	"testing"

	"todomap/internal/model"
)

func task(id, title string, tags ...string) model.Task {
	return model.Task{ID: model.TaskID(id), Title: title, Tags: tags}
}

func TestBuild_GoalScenario(t *testing.T) {
	nodes := Build("**People** #people\n- Hire dev", []model.Task{
		{ID: "t1", Title: "Hire dev", Priority: model.PriorityUrgent, Tags: []string{"people"}},
	})
	if len(nodes) != 1 {
		t.Fatalf("nodes = %+v", nodes)
	}
	n := nodes[0]
	if n.Kind != KindFromGoal || n.Tag != "people" || n.Title != "People" {
		t.Fatalf("node = %+v", n)
	}
	if len(n.Children) != 1 || n.Children[0].Title != "Hire dev" || n.Children[0].Priority != model.PriorityUrgent {
		t.Fatalf("children = %+v", n.Children)
	}
	if !reflect.DeepEqual(n.GoalItems, []string{"Hire dev"}) {
		t.Fatalf("goal items = %#v", n.GoalItems)
	}
	if n.ID != NodeIDForTag("people") {
		t.Fatalf("id not derived from tag")
	}
}

func TestBuild_DeterministicIdentity(t *testing.T) {
	goals := "**Work** #work\n- ship\n**Home** #home"
	tasks := []model.Task{
		task("1", "Deploy", "work"),
		task("2", "Paint", "home", "diy"),
		task("3", "Jog", "fitness"),
	}
	a := Build(goals, tasks)
	b := Build(goals, tasks)
	if len(a) != 4 {
		t.Fatalf("nodes = %+v", a)
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Tag != b[i].Tag {
			t.Fatalf("node %d differs: %v vs %v", i, a[i].Tag, b[i].Tag)
		}
	}
	var tags []string
	for _, n := range a {
		tags = append(tags, string(n.Kind)+":"+n.Tag)
	}
	want := []string{"goal:home", "goal:work", "orphan:diy", "orphan:fitness"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("order = %v, want %v", tags, want)
	}
}

func TestBuild_IDSurvivesGoalTextEdits(t *testing.T) {
	tasks := []model.Task{task("1", "x", "work")}
	before := Build("**Work** #work", tasks)
	after := Build("**Career and craft** #work\n- new item", tasks)
	if before[0].ID != after[0].ID {
		t.Fatalf("id changed with title edit")
	}
}

func TestBuild_DropsEmptyGoalNodes(t *testing.T) {
	nodes := Build("**Prose only** #prose\n- thinking\n**Linked** #linked", []model.Task{task("1", "a", "linked")})
	if len(nodes) != 1 || nodes[0].Tag != "linked" {
		t.Fatalf("nodes = %+v", nodes)
	}
	for _, n := range nodes {
		if len(n.Children) == 0 {
			t.Fatalf("node %q has no children", n.Tag)
		}
	}
}

func TestBuild_ReservedTagsExcluded(t *testing.T) {
	nodes := Build("**Today** #today\n**Urgent** #urgent", []model.Task{
		task("1", "a", "today"),
		task("2", "b", "Urgent"),
		task("3", "c", "urgent", "work"),
	})
	if len(nodes) != 1 || nodes[0].Tag != "work" {
		t.Fatalf("nodes = %+v", nodes)
	}
}

func TestBuild_OrphanTagsLowercasedAndCaseInsensitiveMatch(t *testing.T) {
	nodes := Build("", []model.Task{task("1", "a", "Reading"), task("2", "b", "reading")})
	if len(nodes) != 1 || nodes[0].Tag != "reading" || nodes[0].Title != "#reading" || len(nodes[0].Children) != 2 {
		t.Fatalf("nodes = %+v", nodes)
	}
}

func TestBuildFromDocument_UnionsTopPriority(t *testing.T) {
	doc := &model.Document{
		Tasks:       []model.Task{task("1", "main", "x")},
		TopPriority: []model.Task{task("2", "top", "x")},
		Deleted:     []model.Task{task("3", "gone", "x")},
	}
	nodes := BuildFromDocument(doc)
	if len(nodes) != 1 || len(nodes[0].Children) != 2 {
		t.Fatalf("nodes = %+v", nodes)
	}
	if BuildFromDocument(nil) != nil {
		t.Fatalf("nil document should give no nodes")
	}
}

func TestNodeID_TextRoundTrip(t *testing.T) {
	id := NodeIDForTag("people")
	if id != NodeIDForTag(" People ") {
		t.Fatalf("tag comparison should be case-insensitive")
	}
	if id == NodeIDForTag("peoples") {
		t.Fatalf("different tags gave the same id")
	}
	b, err := id.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back NodeID
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != id {
		t.Fatalf("round trip mismatch")
	}
	if _, err := ParseNodeID("not-an-id"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func forest(n, children int) []Node {
	var tasks []model.Task
	for i := 0; i < n; i++ {
		for j := 0; j < children; j++ {
			tasks = append(tasks, task(fmt.Sprintf("%d-%d", i, j), "t", fmt.Sprintf("tag%02d", i)))
		}
	}
	return Build("", tasks)
}

func TestLayout_SplitsSides(t *testing.T) {
	nodes := Layout(forest(5, 1), Point{0, 0}, Expansion{})
	right, left := 0, 0
	for i, n := range nodes {
		switch {
		case n.Position.X == NodeOffsetX:
			right++
			if Side(i, len(nodes)) != 1 {
				t.Fatalf("node %d on wrong side", i)
			}
		case n.Position.X == -NodeOffsetX:
			left++
		default:
			t.Fatalf("unexpected x %v", n.Position.X)
		}
	}
	if right != 3 || left != 2 {
		t.Fatalf("right=%d left=%d", right, left)
	}
}

func TestLayout_DoesNotMutateInput(t *testing.T) {
	in := forest(2, 2)
	_ = Layout(in, Point{100, 100}, ExpandAll(in))
	for _, n := range in {
		if n.Position != (Point{}) || n.Expanded || n.Children[0].Position != (Point{}) {
			t.Fatalf("input mutated: %+v", n)
		}
	}
}

func TestLayout_SiblingsDoNotOverlap(t *testing.T) {
	in := forest(7, 3)
	cases := map[string]Expansion{
		"collapsed": {},
		"expanded":  ExpandAll(in),
	}
	for name, exp := range cases {
		t.Run(name, func(t *testing.T) {
			nodes := Layout(in, Point{400, 300}, exp)
			split := (len(nodes) + 1) / 2
			for _, side := range [][]Node{nodes[:split], nodes[split:]} {
				for i := 1; i < len(side); i++ {
					prev, cur := side[i-1], side[i]
					prevBottom := prev.Position.Y - childBand(prev)/2 + BranchHeight(prev)
					curTop := cur.Position.Y - childBand(cur)/2
					if curTop-prevBottom < BranchGap-1e-9 {
						t.Fatalf("branches %d and %d overlap: %v < %v", i-1, i, curTop, prevBottom)
					}
					if cur.Position.Y-prev.Position.Y < NodeHeight {
						t.Fatalf("node boxes overlap")
					}
				}
			}
		})
	}
}

func TestLayout_ChildrenCenteredOnParent(t *testing.T) {
	in := forest(1, 3)
	nodes := Layout(in, Point{0, 0}, ExpandAll(in))
	n := nodes[0]
	if n.Position.Y != 0 {
		t.Fatalf("single expanded node should be centered, got %v", n.Position.Y)
	}
	ys := []float64{n.Children[0].Position.Y, n.Children[1].Position.Y, n.Children[2].Position.Y}
	if ys[0] != -ChildSpacing || ys[1] != 0 || ys[2] != ChildSpacing {
		t.Fatalf("child ys = %v", ys)
	}
	if n.Children[0].Position.X != NodeOffsetX+ChildOffsetX {
		t.Fatalf("child x = %v", n.Children[0].Position.X)
	}
}

func TestBranchHeight(t *testing.T) {
	n := Node{Children: make([]Child, 4), GoalItems: []string{"a", "b"}}
	if BranchHeight(n) != BaseBranchHeight {
		t.Fatalf("collapsed height = %v", BranchHeight(n))
	}
	n.Expanded = true
	if BranchHeight(n) != 4*ChildSpacing {
		t.Fatalf("expanded height = %v", BranchHeight(n))
	}
	n.GoalOpen = true
	if BranchHeight(n) != 4*ChildSpacing+2*GoalItemHeight+GoalBoxPadding {
		t.Fatalf("goal-open height = %v", BranchHeight(n))
	}
}

func TestCanvasSize_NeverBelowMinimum(t *testing.T) {
	if s := CanvasSize(nil); s.Width != MinCanvasWidth || s.Height != MinCanvasHeight {
		t.Fatalf("empty canvas = %+v", s)
	}
	small := Layout(forest(1, 1), Point{0, 0}, Expansion{})
	if s := CanvasSize(small); s.Width < MinCanvasWidth || s.Height < MinCanvasHeight {
		t.Fatalf("small canvas = %+v", s)
	}
	big := forest(30, 4)
	laid := Layout(big, Point{0, 0}, ExpandAll(big))
	s := CanvasSize(laid)
	if s.Height <= MinCanvasHeight {
		t.Fatalf("large forest should grow the canvas, got %+v", s)
	}
	wantW := 2*(NodeOffsetX+ChildOffsetX) + ChildWidth + 2*CanvasPadding
	if s.Width != wantW {
		t.Fatalf("width = %v, want %v", s.Width, wantW)
	}
}

func TestColorAssigner(t *testing.T) {
	a := NewColorAssigner([]string{"red", "green"})
	if a.ColorFor("work") != "red" || a.ColorFor("home") != "green" {
		t.Fatalf("palette order not respected")
	}
	if a.ColorFor("WORK") != "red" {
		t.Fatalf("color not stable per tag")
	}
	overflow := a.ColorFor("extra")
	if overflow != "red" && overflow != "green" {
		t.Fatalf("fallback outside palette: %q", overflow)
	}
	if a.ColorFor("extra") != overflow {
		t.Fatalf("fallback not stable")
	}
	a.Reset()
	if a.ColorFor("home") != "red" {
		t.Fatalf("Reset did not clear assignments")
	}
	if NewColorAssigner(nil).ColorFor("x") != DefaultPalette[0] {
		t.Fatalf("default palette not used")
	}
}
