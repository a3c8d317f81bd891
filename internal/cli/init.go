package cli

import (
	"todomap/internal/model"
	"todomap/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the todo document if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			created := false
			if !s.Exists() {
				if err := s.Save(&model.Document{}); err != nil {
					return writeErr(cmd, err)
				}
				created = true
			}

			if use {
				cfg, err := store.LoadConfig()
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.CurrentFile = s.Path
				if err := store.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
			}

			return writeOut(cmd, app, envelope{Data: map[string]any{
				"path":    s.Path,
				"created": created,
				"current": use,
			}})
		},
	}
	cmd.Flags().BoolVar(&use, "use", false, "Remember this document as the current file")
	return cmd
}
