package cli

import (
	"strconv"
	"strings"

	"todomap/internal/mutate"

	"github.com/spf13/cobra"
)

func newBigThingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bigthings",
		Aliases: []string{"big"},
		Short:   "Numbered list of big things",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List big things",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: bigThingsView(doc.BigThings)})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text...>",
		Short: "Append a big thing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := mutate.AddBigThing(doc, strings.Join(args, " ")); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(doc); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: bigThingsView(doc.BigThings)})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <n>",
		Short: "Remove the n-th big thing (1-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, mutate.ValidationError{Field: "n", Reason: "not a number: " + args[0]})
			}
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, err := mutate.RemoveBigThing(doc, n)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(doc); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: bigThingsView(doc.BigThings),
				Meta: map[string]any{"removed": removed},
			})
		},
	})

	return cmd
}
