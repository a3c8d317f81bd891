package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"todomap/internal/format"
	"todomap/internal/model"
	"todomap/internal/store"
	"todomap/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	File       string
	PrettyJSON bool
	Format     string
	LogLevel   string

	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todomap",
		Short:        "Markdown todo list with a goal mind map (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI on ./todo.md
  todomap

  # Open a specific document
  todomap ~/notes/todo.md

  # Scriptable commands
  todomap tasks add "Call the accountant #admin" --priority today
  todomap tasks done 3
  todomap mindmap --expand-all --format text
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.logger = newLogger(cmd, app.LogLevel)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.File, "file", envOr("TODOMAP_FILE", ""), "Path to the todo document (default: config currentFile, then ./todo.md)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODOMAP_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TODOMAP_LOG_LEVEL", "warn"), "Diagnostics written to stderr (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newGoalsCmd(app))
	cmd.AddCommand(newBigThingsCmd(app))
	cmd.AddCommand(newMindMapCmd(app))
	cmd.AddCommand(newFmtCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	path, err := store.ResolveDocumentPath(app.File, cfg)
	if err != nil {
		return writeErr(cmd, err)
	}
	s := store.New(path)
	doc, loadErr := s.Load()
	if errors.Is(loadErr, store.ErrNotFound) {
		loadErr = nil
	}
	return tui.Run(tui.Options{
		Store:   s,
		Doc:     doc,
		LoadErr: loadErr,
		Config:  cfg,
		Logger:  app.log(),
	})
}

// loadDocument resolves and reads the document. A missing file is an empty document;
// any other load failure is returned so one-shot commands never save over a file
// they could not read.
func loadDocument(app *App) (*model.Document, store.Store, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, store.Store{}, err
	}
	path, err := store.ResolveDocumentPath(app.File, cfg)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.New(path)
	doc, err := s.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.log().Debug("document does not exist yet", "path", path)
			return doc, s, nil
		}
		return nil, s, err
	}
	return doc, s, nil
}

func newLogger(cmd *cobra.Command, level string) *slog.Logger {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lv = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lv}))
}

func (app *App) log() *slog.Logger {
	if app.logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return app.logger
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the output contract: every command writes {"data": ..., "meta"?: ..., "_hints"?: [...]}.
type envelope struct {
	Data  any      `json:"data"`
	Meta  any      `json:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty"`
}

func (e envelope) Text() string {
	var b strings.Builder
	_ = format.WriteText(&b, e.Data)
	for _, h := range e.Hints {
		b.WriteString("hint: ")
		b.WriteString(h)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
