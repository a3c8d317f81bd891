package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"todomap/internal/mindmap"
	"todomap/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	savedMsg    struct{}
	saveErrMsg  struct{ err error }
	expSavedMsg struct{ err error }
)

// backupMsg reports one backup run. An empty path with no error means there was no
// document to copy yet.
type backupMsg struct {
	path string
	err  error
}

// session owns the background workers of one TUI run. Workers report back through send,
// which is bound to the running program.
type session struct {
	store   store.Store
	saver   *store.DebouncedSaver
	backups *store.BackupScheduler
	exp     *store.ExpansionStore
	logger  *slog.Logger

	mu   sync.Mutex
	send func(tea.Msg)
}

func newSession(s store.Store, cfg *store.GlobalConfig, logger *slog.Logger) *session {
	sess := &session{store: s, logger: logger}
	sess.saver = store.NewDebouncedSaver(store.DebouncedSaverOpts{
		Store:    s,
		Debounce: cfg.SaveDebounce(),
		OnError:  func(err error) { sess.post(saveErrMsg{err: err}) },
		OnSaved:  func() { sess.post(savedMsg{}) },
	})
	backupDir := ""
	if cfg != nil {
		backupDir = cfg.BackupDir
	}
	sess.backups = store.NewBackupScheduler(store.BackupSchedulerOpts{
		Store:    s,
		Interval: cfg.BackupInterval(),
		Dir:      backupDir,
		Policy:   cfg.BackupPolicyFor(s),
		OnBackup: func(path string) { sess.post(backupMsg{path: path}) },
		OnError:  func(err error) { sess.post(backupMsg{err: err}) },
	})
	return sess
}

func (s *session) bind(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *session) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// openExpansion opens the UI state db and loads this document's expansion. Failure
// only costs the remembered state.
func (s *session) openExpansion(ctx context.Context) mindmap.Expansion {
	path, err := store.DefaultExpansionStorePath()
	if err == nil {
		s.exp, err = store.OpenExpansionStore(ctx, path)
	}
	if err != nil {
		s.logger.Warn("ui state unavailable", "err", err)
		return mindmap.Expansion{}
	}
	st, err := s.exp.Load(ctx, s.store.Path)
	if err != nil {
		s.logger.Warn("load ui state", "doc", s.store.Path, "err", err)
	}
	return st.Expansion()
}

// saveExpansion persists exp off the update loop.
func (s *session) saveExpansion(exp mindmap.Expansion) tea.Cmd {
	if s == nil || s.exp == nil {
		return nil
	}
	st := store.ExpansionStateFrom(exp)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return expSavedMsg{err: s.exp.Save(ctx, s.store.Path, st)}
	}
}

func (s *session) backupNow() tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		// OnBackup and OnError post the outcome of a real run.
		if path, err := s.backups.RunOnce(); path == "" && err == nil {
			return backupMsg{}
		}
		return nil
	}
}

// close stops the workers and flushes any pending save. It must not run on the update
// loop: a flush reports through send.
func (s *session) close() error {
	s.bind(nil)
	s.backups.Stop()
	err := s.saver.Stop()
	return errors.Join(err, s.exp.Close())
}
