package cli

import (
	"errors"
	"strings"

	"todomap/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var title string
	var includeCompleted bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the mind map as Markdown (derived, not canonical)",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteMindMap(doc, toDir, publish.WriteOptions{
				Title:            title,
				IncludeCompleted: includeCompleted,
				Overwrite:        overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: res,
				Hints: []string{
					"git -C " + toDir + " status",
				},
			})
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Page title (default: Mind Map)")
	cmd.Flags().BoolVar(&includeCompleted, "include-completed", false, "Include completed tasks")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing mindmap.md")
	return cmd
}
