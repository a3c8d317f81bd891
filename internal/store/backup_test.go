package store

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"todomap/internal/model"
)

func TestBackupName(t *testing.T) {
	ts := time.Date(2025, 3, 9, 7, 5, 4, 0, time.UTC)
	if got := BackupName("todo", ts); got != "todo_backup_2025-03-09_07-05-04.md" {
		t.Fatalf("BackupName = %q", got)
	}
}

func TestBackup_CopiesDocumentIntoDefaultDir(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "todo.md"))
	if err := s.Save(&model.Document{Goals: "keep me"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	path, err := s.Backup("", now)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if want := filepath.Join(dir, "backups", "todo_backup_2025-01-01_12-00-00.md"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	orig, _ := os.ReadFile(s.Path)
	copyB, _ := os.ReadFile(path)
	if string(orig) != string(copyB) {
		t.Fatalf("backup differs from document")
	}
}

func TestListAndPruneBackups(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		name := BackupName("todo", base.Add(time.Duration(i)*time.Hour))
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, other := range []string{"notes_backup_2025-01-01_00-00-00.md", "todo_backup_garbage.md", "todo.md"} {
		if err := os.WriteFile(filepath.Join(dir, other), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	list, err := ListBackups(nil, dir, "todo")
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(list) != 5 || !list[0].Time.After(list[4].Time) {
		t.Fatalf("list = %+v", list)
	}

	removed, err := PruneBackups(OSFileSystem{}, dir, BackupPolicy{Keep: 2, Prefix: "todo"})
	if err != nil {
		t.Fatalf("PruneBackups: %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("removed = %v", removed)
	}
	left, _ := ListBackups(nil, dir, "todo")
	if len(left) != 2 || left[0].Name != BackupName("todo", base.Add(4*time.Hour)) {
		t.Fatalf("left = %+v", left)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes_backup_2025-01-01_00-00-00.md")); err != nil {
		t.Fatalf("other prefix pruned: %v", err)
	}

	empty, err := ListBackups(nil, filepath.Join(dir, "missing"), "todo")
	if err != nil || len(empty) != 0 {
		t.Fatalf("missing dir: %v %v", empty, err)
	}
}

func TestBackupScheduler_RunOnceAndTicker(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "todo.md"))

	sched := NewBackupScheduler(BackupSchedulerOpts{Store: s})
	if path, err := sched.RunOnce(); err != nil || path != "" {
		t.Fatalf("missing document should be skipped: %q %v", path, err)
	}

	if err := s.Save(&model.Document{}); err != nil {
		t.Fatal(err)
	}
	var tick atomic.Int64
	var backups atomic.Int32
	sched = NewBackupScheduler(BackupSchedulerOpts{
		Store:    s,
		Interval: 10 * time.Millisecond,
		Policy:   BackupPolicy{Keep: 3},
		Now: func() time.Time {
			return time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local).Add(time.Duration(tick.Add(1)) * time.Second)
		},
		OnBackup: func(string) { backups.Add(1) },
	})
	sched.Start(context.Background())
	sched.Start(context.Background())
	waitFor(t, func() bool { return backups.Load() >= 5 })
	sched.Stop()
	sched.Stop()

	list, err := ListBackups(nil, filepath.Join(dir, "backups"), "todo")
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected pruning to keep 3, got %d", len(list))
	}
}

func TestBackupScheduler_StopsWithContext(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todo.md"))
	sched := NewBackupScheduler(BackupSchedulerOpts{Store: s, Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	cancel()
	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after context cancel")
	}
}
