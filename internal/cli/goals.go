package cli

import (
	"errors"
	"io"
	"strings"

	"todomap/internal/goals"
	"todomap/internal/mutate"

	"github.com/spf13/cobra"
)

func newGoalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Goals block commands",
	}
	cmd.AddCommand(newGoalsShowCmd(app))
	cmd.AddCommand(newGoalsSetCmd(app))
	cmd.AddCommand(newGoalsExtractCmd(app))
	return cmd
}

func newGoalsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the free-text goals block",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: goalsView{Goals: doc.Goals}})
		},
	}
}

func newGoalsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <text|->",
		Short: "Replace the goals block (use - to read stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				text = string(b)
			}
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			changed, err := mutate.SetGoals(doc, text)
			if err != nil {
				return writeErr(cmd, err)
			}
			if changed {
				if err := s.Save(doc); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, envelope{
				Data: goalsView{Goals: doc.Goals},
				Meta: map[string]any{"changed": changed},
			})
		},
	}
}

func newGoalsExtractCmd(app *App) *cobra.Command {
	var includeReserved bool
	var tag string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract tagged goal records from the goals block",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := goals.Extract(doc.Goals)
			records := res.Records
			if !includeReserved {
				records = goals.WithoutReserved(records)
			}
			if tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#")); tag != "" {
				filtered := records[:0:0]
				for _, r := range records {
					if strings.EqualFold(r.Tag, tag) {
						filtered = append(filtered, r)
					}
				}
				if len(filtered) == 0 {
					return writeErr(cmd, errors.New("no goal record tagged #"+tag))
				}
				records = filtered
			}
			return writeOut(cmd, app, envelope{
				Data: goalRecords(records),
				Meta: map[string]any{"discarded": res.Discarded},
			})
		},
	}
	cmd.Flags().BoolVar(&includeReserved, "include-reserved", false, "Keep records tagged with reserved tags (#today, #urgent, ...)")
	cmd.Flags().StringVar(&tag, "tag", "", "Only the record with this tag")
	return cmd
}
