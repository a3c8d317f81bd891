package cli

import (
	"errors"
	"fmt"

	"todomap/internal/goals"
	"todomap/internal/markdown"
	"todomap/internal/mindmap"
	"todomap/internal/store"

	"github.com/spf13/cobra"
)

func newFmtCmd(app *App) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the document in canonical form",
		Long: "Parses the document and writes it back the way the TUI saves it.\n" +
			"Unrecognized lines are dropped; run `todomap doctor` first to see how many.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text, err := s.ReadText()
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, stats := markdown.ParseWithStats(text, markdown.ParseOptions{})
			formatted := markdown.Serialize(doc)
			changed := formatted != text

			data := map[string]any{
				"path":    s.Path,
				"changed": changed,
				"skipped": stats.Skipped,
			}
			if check {
				if err := writeOut(cmd, app, envelope{Data: data}); err != nil {
					return err
				}
				if changed {
					return writeErr(cmd, fmt.Errorf("%s is not in canonical form", s.Path))
				}
				return nil
			}
			if changed {
				if err := s.Save(doc); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, envelope{Data: data})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Only report; exit non-zero when the file would change")
	return cmd
}

type doctorReport struct {
	Path         string `json:"path"`
	Exists       bool   `json:"exists"`
	Lines        int    `json:"lines"`
	Tasks        int    `json:"tasks"`
	Skipped      int    `json:"skippedLines"`
	GoalRecords  int    `json:"goalRecords"`
	GoalsDropped int    `json:"goalLinesDiscarded"`
	Nodes        int    `json:"mindMapNodes"`
	OrphanNodes  int    `json:"orphanNodes"`
	Canonical    bool   `json:"canonical"`
}

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report what the parser and goal extractor made of the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rep := doctorReport{Path: s.Path}
			text, err := s.ReadText()
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, envelope{Data: rep, Hints: []string{"todomap init"}})
			}
			rep.Exists = true

			doc, stats := markdown.ParseWithStats(text, markdown.ParseOptions{})
			rep.Lines, rep.Tasks, rep.Skipped = stats.Lines, stats.Tasks, stats.Skipped
			ex := goals.Extract(doc.Goals)
			rep.GoalRecords = len(goals.WithoutReserved(ex.Records))
			rep.GoalsDropped = ex.Discarded
			for _, n := range mindmap.BuildFromDocument(doc) {
				rep.Nodes++
				if n.Kind == mindmap.KindOrphanTag {
					rep.OrphanNodes++
				}
			}
			rep.Canonical = markdown.Serialize(doc) == text

			var hints []string
			if !rep.Canonical {
				hints = append(hints, "todomap fmt")
			}
			return writeOut(cmd, app, envelope{Data: rep, Hints: hints})
		},
	}
}
