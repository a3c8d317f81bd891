package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"todomap/internal/markdown"
	"todomap/internal/model"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidEncoding = errors.New("document is not valid UTF-8")
)

// LoadError reports a load that fell back to an empty document. Callers may keep
// working with the empty document or ask the user for another file.
type LoadError struct {
	Path string
	Kind error // ErrNotFound, ErrInvalidEncoding, or nil for other read errors
	Err  error
}

func (e *LoadError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("load %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *LoadError) Recoverable() bool { return true }

// Store reads and writes one todo document.
type Store struct {
	Path string
	FS   FileSystem
}

func New(path string) Store { return Store{Path: path, FS: OSFileSystem{}} }

func (s Store) fs() FileSystem {
	if s.FS == nil {
		return OSFileSystem{}
	}
	return s.FS
}

// Stem is the document file name without its extension.
func (s Store) Stem() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load parses the document. On any failure it returns an empty document together
// with a *LoadError, never a nil document.
func (s Store) Load() (*model.Document, error) {
	doc, _, err := s.LoadWithStats(markdown.ParseOptions{})
	return doc, err
}

func (s Store) LoadWithStats(opt markdown.ParseOptions) (*model.Document, markdown.Stats, error) {
	text, err := s.ReadText()
	if err != nil {
		return &model.Document{}, markdown.Stats{}, err
	}
	doc, stats := markdown.ParseWithStats(text, opt)
	return doc, stats, nil
}

// ReadText returns the raw document text. Errors are *LoadError.
func (s Store) ReadText() (string, error) {
	b, err := s.fs().ReadFile(s.Path)
	if err != nil {
		le := &LoadError{Path: s.Path, Err: err}
		if errors.Is(err, os.ErrNotExist) {
			le.Kind = ErrNotFound
		}
		return "", le
	}
	if !utf8.Valid(b) {
		return "", &LoadError{Path: s.Path, Kind: ErrInvalidEncoding}
	}
	return string(b), nil
}

// Save writes the canonical serialization of doc. doc is only read.
func (s Store) Save(doc *model.Document) error {
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("save: missing document path")
	}
	fsys := s.fs()
	if err := fsys.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	if err := fsys.WriteFile(s.Path, []byte(markdown.Serialize(doc)), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	return nil
}

// Exists reports whether the document file is readable.
func (s Store) Exists() bool {
	_, err := s.fs().ReadFile(s.Path)
	return err == nil
}
