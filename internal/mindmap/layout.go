package mindmap

import "math"

// Layout policy. Spacing is fixed rather than computed from content; forests are small.
const (
	BaseBranchHeight = 60.0
	ChildSpacing     = 44.0
	GoalItemHeight   = 22.0
	GoalBoxPadding   = 24.0
	BranchGap        = 30.0

	// NodeOffsetX is the horizontal distance from center to a node; children sit a
	// further ChildOffsetX out on the same side.
	NodeOffsetX  = 220.0
	ChildOffsetX = 200.0

	NodeWidth    = 160.0
	NodeHeight   = 44.0
	ChildWidth   = 180.0
	ChildHeight  = 32.0
	GoalBoxWidth = 200.0

	CanvasPadding   = 80.0
	MinCanvasWidth  = 800.0
	MinCanvasHeight = 600.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned box; Min is the top-left corner.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func centeredRect(c Point, w, h float64) Rect {
	return Rect{Min: Point{c.X - w/2, c.Y - h/2}, Max: Point{c.X + w/2, c.Y + h/2}}
}

func (r Rect) union(o Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Expansion is the UI state that drives layout: which nodes show their children and
// which show their goal box. Nil maps mean nothing is expanded.
type Expansion struct {
	Nodes map[NodeID]bool
	Goals map[NodeID]bool
}

// ExpandAll returns an Expansion with every node and goal box open.
func ExpandAll(nodes []Node) Expansion {
	exp := Expansion{Nodes: map[NodeID]bool{}, Goals: map[NodeID]bool{}}
	for _, n := range nodes {
		exp.Nodes[n.ID] = true
		exp.Goals[n.ID] = true
	}
	return exp
}

// Side reports which side of center node index i of n lands on.
func Side(i, n int) int {
	if i < splitIndex(n) {
		return 1
	}
	return -1
}

// splitIndex: the first ceil(n/2) nodes go right.
func splitIndex(n int) int { return (n + 1) / 2 }

// Layout returns a positioned copy of nodes. The first half goes right of center and the
// rest left; each side is stacked top to bottom and centered on center.Y.
func Layout(nodes []Node, center Point, exp Expansion) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.clone()
		out[i].Expanded = exp.Nodes[n.ID]
		out[i].GoalOpen = exp.Goals[n.ID]
	}
	split := splitIndex(len(out))
	layoutSide(out[:split], center, 1)
	layoutSide(out[split:], center, -1)
	return out
}

func layoutSide(nodes []Node, center Point, dir float64) {
	if len(nodes) == 0 {
		return
	}
	total := BranchGap * float64(len(nodes)-1)
	for _, n := range nodes {
		total += BranchHeight(n)
	}

	top := center.Y - total/2
	for i := range nodes {
		n := &nodes[i]
		n.Position = Point{X: center.X + dir*NodeOffsetX, Y: top + childBand(*n)/2}
		if n.Expanded {
			childX := center.X + dir*(NodeOffsetX+ChildOffsetX)
			first := n.Position.Y - float64(len(n.Children)-1)*ChildSpacing/2
			for j := range n.Children {
				n.Children[j].Position = Point{X: childX, Y: first + float64(j)*ChildSpacing}
			}
		} else {
			for j := range n.Children {
				n.Children[j].Position = n.Position
			}
		}
		top += BranchHeight(*n) + BranchGap
	}
}

// BranchHeight is the vertical extent reserved for n: its child band plus its goal box.
func BranchHeight(n Node) float64 {
	return childBand(n) + goalBand(n)
}

func childBand(n Node) float64 {
	if n.Expanded && len(n.Children) > 1 {
		return math.Max(BaseBranchHeight, float64(len(n.Children))*ChildSpacing)
	}
	return BaseBranchHeight
}

func goalBand(n Node) float64 {
	if !n.GoalOpen || len(n.GoalItems) == 0 {
		return 0
	}
	return float64(len(n.GoalItems))*GoalItemHeight + GoalBoxPadding
}

// NodeRect is the visual box of a positioned node.
func NodeRect(n Node) Rect { return centeredRect(n.Position, NodeWidth, NodeHeight) }

func ChildRect(c Child) Rect { return centeredRect(c.Position, ChildWidth, ChildHeight) }

// GoalBoxRect is the box below n holding its goal items, when open.
func GoalBoxRect(n Node) (Rect, bool) {
	h := goalBand(n)
	if h == 0 {
		return Rect{}, false
	}
	top := n.Position.Y + childBand(n)/2
	return Rect{
		Min: Point{n.Position.X - GoalBoxWidth/2, top},
		Max: Point{n.Position.X + GoalBoxWidth/2, top + h},
	}, true
}

// Bounds is the padded bounding box of every visible element. With no nodes it is a
// minimum-size box at the origin.
func Bounds(nodes []Node) Rect {
	if len(nodes) == 0 {
		return Rect{Max: Point{MinCanvasWidth, MinCanvasHeight}}
	}
	box := NodeRect(nodes[0])
	for _, n := range nodes {
		box = box.union(NodeRect(n))
		if n.Expanded {
			for _, c := range n.Children {
				box = box.union(ChildRect(c))
			}
		}
		if g, ok := GoalBoxRect(n); ok {
			box = box.union(g)
		}
	}
	box.Min.X -= CanvasPadding
	box.Min.Y -= CanvasPadding
	box.Max.X += CanvasPadding
	box.Max.Y += CanvasPadding

	if w := box.Width(); w < MinCanvasWidth {
		box.Min.X -= (MinCanvasWidth - w) / 2
		box.Max.X = box.Min.X + MinCanvasWidth
	}
	if h := box.Height(); h < MinCanvasHeight {
		box.Min.Y -= (MinCanvasHeight - h) / 2
		box.Max.Y = box.Min.Y + MinCanvasHeight
	}
	return box
}

// CanvasSize is the size of Bounds, never smaller than the minimum canvas.
func CanvasSize(nodes []Node) Size {
	b := Bounds(nodes)
	return Size{Width: math.Max(b.Width(), MinCanvasWidth), Height: math.Max(b.Height(), MinCanvasHeight)}
}
