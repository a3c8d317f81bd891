package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	backupTimeLayout     = "2006-01-02_15-04-05"
	backupInfix          = "_backup_"
	DefaultBackupDirName = "backups"
	DefaultBackupKeep    = 10
	DefaultBackupEvery   = 4 * time.Hour
)

// BackupName is `<stem>_backup_<yyyy-MM-dd_HH-mm-ss>.md`.
func BackupName(stem string, t time.Time) string {
	return stem + backupInfix + t.Format(backupTimeLayout) + ".md"
}

// BackupDir is where backups of the document go when dir is empty.
func (s Store) BackupDir(dir string) string {
	if strings.TrimSpace(dir) != "" {
		return dir
	}
	return filepath.Join(filepath.Dir(s.Path), DefaultBackupDirName)
}

// Backup copies the current document file into dir and returns the backup path. It only
// reads the document, so it can run alongside pending saves.
func (s Store) Backup(dir string, now time.Time) (string, error) {
	dest := filepath.Join(s.BackupDir(dir), BackupName(s.Stem(), now))
	if err := CopyFile(s.fs(), s.Path, dest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &LoadError{Path: s.Path, Kind: ErrNotFound, Err: err}
		}
		return "", err
	}
	return dest, nil
}

type BackupInfo struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Time time.Time `json:"time"`
}

// BackupPolicy controls pruning. Keep <= 0 means DefaultBackupKeep. Only files named
// `<Prefix>_backup_<timestamp>.md` are considered.
type BackupPolicy struct {
	Keep   int
	Prefix string
}

// ListBackups returns backups in dir whose stem is prefix, newest first. A missing dir
// has no backups.
func ListBackups(fsys FileSystem, dir, prefix string) ([]BackupInfo, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	ents, err := fsys.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}
	out := []BackupInfo{}
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		ts, ok := parseBackupName(e.Name(), prefix)
		if !ok {
			continue
		}
		out = append(out, BackupInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Time: ts})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.After(out[j].Time)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

func parseBackupName(name, prefix string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, prefix+backupInfix)
	if !ok {
		return time.Time{}, false
	}
	rest, ok = strings.CutSuffix(rest, ".md")
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(backupTimeLayout, rest, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// PruneBackups removes all but the newest policy.Keep backups and returns the removed paths.
func PruneBackups(fsys FileSystem, dir string, policy BackupPolicy) ([]string, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	keep := policy.Keep
	if keep <= 0 {
		keep = DefaultBackupKeep
	}
	list, err := ListBackups(fsys, dir, policy.Prefix)
	if err != nil {
		return nil, err
	}
	if len(list) <= keep {
		return []string{}, nil
	}
	removed := []string{}
	var errs []error
	for _, b := range list[keep:] {
		if err := fsys.Remove(b.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, b.Path)
	}
	return removed, errors.Join(errs...)
}

type BackupSchedulerOpts struct {
	Store    Store
	Interval time.Duration
	Dir      string
	Policy   BackupPolicy
	Now      func() time.Time

	OnBackup func(path string)
	OnError  func(error)
}

// BackupScheduler copies the document on a fixed interval on its own goroutine and
// prunes old copies. It shares nothing with the DebouncedSaver.
type BackupScheduler struct {
	opts BackupSchedulerOpts

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBackupScheduler(opts BackupSchedulerOpts) *BackupScheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultBackupEvery
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if strings.TrimSpace(opts.Policy.Prefix) == "" {
		opts.Policy.Prefix = opts.Store.Stem()
	}
	return &BackupScheduler{opts: opts}
}

// Start begins ticking until ctx is done or Stop is called. Calling Start twice is a no-op.
func (b *BackupScheduler) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	go b.loop(ctx, b.done)
}

func (b *BackupScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(b.opts.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.RunOnce()
		}
	}
}

// RunOnce takes one backup and prunes. A missing document is skipped quietly.
func (b *BackupScheduler) RunOnce() (string, error) {
	path, err := b.opts.Store.Backup(b.opts.Dir, b.opts.Now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		b.report(err)
		return "", err
	}
	if b.opts.OnBackup != nil {
		b.opts.OnBackup(path)
	}
	if _, err := PruneBackups(b.opts.Store.fs(), b.opts.Store.BackupDir(b.opts.Dir), b.opts.Policy); err != nil {
		b.report(err)
		return path, err
	}
	return path, nil
}

func (b *BackupScheduler) report(err error) {
	if b.opts.OnError != nil {
		b.opts.OnError(err)
	}
}

// Stop ends the ticker goroutine and waits for it.
func (b *BackupScheduler) Stop() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
