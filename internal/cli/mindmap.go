package cli

import (
	"fmt"
	"strings"

	"todomap/internal/markdown"
	"todomap/internal/mindmap"
	"todomap/internal/model"
	"todomap/internal/store"

	"github.com/spf13/cobra"
)

type mindMapView struct {
	Nodes  []mindmap.Node `json:"nodes"`
	Canvas mindmap.Size   `json:"canvas"`
	Bounds mindmap.Rect   `json:"bounds"`
}

func (v mindMapView) Text() string {
	if len(v.Nodes) == 0 {
		return "(empty mind map: no tagged tasks)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "canvas %.0fx%.0f\n", v.Canvas.Width, v.Canvas.Height)
	for i, n := range v.Nodes {
		side := "right"
		if mindmap.Side(i, len(v.Nodes)) < 0 {
			side = "left"
		}
		label := n.Title
		if n.Kind == mindmap.KindOrphanTag {
			label = "#" + n.Tag
		} else {
			label += " (#" + n.Tag + ")"
		}
		fmt.Fprintf(&b, "%s  [%s] @ %.0f,%.0f  %d tasks\n", label, side, n.Position.X, n.Position.Y, len(n.Children))
		if n.GoalOpen {
			for _, it := range n.GoalItems {
				fmt.Fprintf(&b, "    > %s\n", it)
			}
		}
		if n.Expanded {
			for _, c := range n.Children {
				line := markdown.CheckboxLine(model.Task{Title: c.Title, Completed: c.Completed})
				fmt.Fprintf(&b, "    %s @ %.0f,%.0f\n", line, c.Position.X, c.Position.Y)
			}
		}
	}
	return b.String()
}

func newMindMapCmd(app *App) *cobra.Command {
	var expandAll bool
	var saved bool
	var expand []string
	var centerX, centerY float64

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Build and lay out the goal/tag mind map",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			nodes := mindmap.BuildFromDocument(doc)

			exp := mindmap.Expansion{Nodes: map[mindmap.NodeID]bool{}, Goals: map[mindmap.NodeID]bool{}}
			switch {
			case expandAll:
				exp = mindmap.ExpandAll(nodes)
			case saved:
				st, err := loadSavedExpansion(cmd, s)
				if err != nil {
					app.log().Warn("saved expansion state unavailable", "err", err)
				} else {
					exp = st.Expansion()
				}
			}
			for _, tag := range expand {
				id := mindmap.NodeIDForTag(strings.TrimPrefix(tag, "#"))
				exp.Nodes[id] = true
				exp.Goals[id] = true
			}

			laid := mindmap.Layout(nodes, mindmap.Point{X: centerX, Y: centerY}, exp)
			return writeOut(cmd, app, envelope{Data: mindMapView{
				Nodes:  laid,
				Canvas: mindmap.CanvasSize(laid),
				Bounds: mindmap.Bounds(laid),
			}})
		},
	}
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Expand every node and goal box")
	cmd.Flags().BoolVar(&saved, "saved", false, "Use the expansion state saved by the TUI")
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "Expand the node for this tag (repeatable)")
	cmd.Flags().Float64Var(&centerX, "center-x", 0, "Canvas center X")
	cmd.Flags().Float64Var(&centerY, "center-y", 0, "Canvas center Y")
	return cmd
}

func loadSavedExpansion(cmd *cobra.Command, s store.Store) (store.ExpansionState, error) {
	path, err := store.DefaultExpansionStorePath()
	if err != nil {
		return store.ExpansionState{}, err
	}
	es, err := store.OpenExpansionStore(cmd.Context(), path)
	if err != nil {
		return store.ExpansionState{}, err
	}
	defer es.Close()
	return es.Load(cmd.Context(), s.Path)
}
