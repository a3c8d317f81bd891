package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todomap/internal/model"
	"todomap/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Store store.Store
	// Doc is the loaded document; nil means empty.
	Doc *model.Document
	// LoadErr is a failed load other than a missing file. The TUI then opens read-only.
	LoadErr error
	Config  *store.GlobalConfig
	Logger  *slog.Logger
}

// Run starts the interactive TUI and blocks until it exits. Pending edits are flushed
// before Run returns.
func Run(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	applyColorProfilePreference()
	applyThemePreference()
	applyAppearancePreference(opts.Config)
	applyGlyphPreference(opts.Config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := newSession(opts.Store, opts.Config, logger)
	exp := sess.openExpansion(ctx)
	m := newAppModel(opts.Store, opts.Doc, opts.LoadErr, sess, exp)

	p := tea.NewProgram(m, tea.WithAltScreen())
	sess.bind(p.Send)
	if opts.LoadErr == nil {
		sess.backups.Start(ctx)
	}

	_, runErr := p.Run()
	if err := sess.close(); err != nil {
		logger.Error("closing session", "doc", opts.Store.Path, "err", err)
		return errors.Join(runErr, fmt.Errorf("close %s: %w", opts.Store.Path, err))
	}
	return runErr
}
