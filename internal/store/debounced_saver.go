package store

import (
	"sync"
	"time"

	"todomap/internal/model"
)

const DefaultSaveDebounce = 300 * time.Millisecond

type DebouncedSaverOpts struct {
	Store    Store
	Debounce time.Duration

	// OnError receives background write failures. The in-memory document is unaffected.
	OnError func(error)
	// OnSaved is called after each successful write.
	OnSaved func()
}

// DebouncedSaver coalesces rapid edits into one write. At most one write is pending;
// each Notify replaces it and pushes the deadline out.
type DebouncedSaver struct {
	store    Store
	debounce time.Duration
	onError  func(error)
	onSaved  func()

	mu      sync.Mutex
	timer   *time.Timer
	pending *model.Document
	seq     uint64
	stopped bool

	// writeMu serializes writes; written is the seq of the newest snapshot on disk.
	writeMu sync.Mutex
	written uint64
}

func NewDebouncedSaver(opts DebouncedSaverOpts) *DebouncedSaver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	return &DebouncedSaver{
		store:    opts.Store,
		debounce: debounce,
		onError:  opts.OnError,
		onSaved:  opts.OnSaved,
	}
}

// Notify schedules a save of doc. doc is copied, so the caller may keep mutating it.
func (d *DebouncedSaver) Notify(doc *model.Document) {
	if d == nil {
		return
	}
	snap := doc.Clone()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = snap
	d.seq++
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		return
	}
	d.timer.Reset(d.debounce)
}

// Pending reports whether a save is scheduled but not yet written.
func (d *DebouncedSaver) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *DebouncedSaver) onTimer() {
	doc, seq := d.take()
	if doc == nil {
		return
	}
	if err := d.write(doc, seq); err != nil && d.onError != nil {
		d.onError(err)
	}
}

func (d *DebouncedSaver) take() (*model.Document, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc := d.pending
	d.pending = nil
	return doc, d.seq
}

func (d *DebouncedSaver) write(doc *model.Document, seq uint64) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	// A newer snapshot already reached disk through Flush.
	if seq <= d.written {
		return nil
	}
	if err := d.store.Save(doc); err != nil {
		return err
	}
	d.written = seq
	if d.onSaved != nil {
		d.onSaved()
	}
	return nil
}

// Flush writes any pending snapshot now and returns the write error, if any.
func (d *DebouncedSaver) Flush() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	doc, seq := d.take()
	if doc == nil {
		return nil
	}
	return d.write(doc, seq)
}

// Stop flushes and disables further saves.
func (d *DebouncedSaver) Stop() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	return d.Flush()
}
