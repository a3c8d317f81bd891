package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todomap/internal/mindmap"

	_ "modernc.org/sqlite"
)

const uiStateFileName = "ui_state.sqlite"

const (
	expansionKindNode = "node"
	expansionKindGoal = "goal"
)

// ExpansionState is which mind-map nodes show their children and which show their
// goal box, keyed by node id string.
type ExpansionState struct {
	Nodes map[string]bool `json:"nodes"`
	Goals map[string]bool `json:"goals"`
}

func NewExpansionState() ExpansionState {
	return ExpansionState{Nodes: map[string]bool{}, Goals: map[string]bool{}}
}

// Expansion converts to the layout engine's form. Unparseable ids are skipped.
func (st ExpansionState) Expansion() mindmap.Expansion {
	return mindmap.Expansion{Nodes: parseIDSet(st.Nodes), Goals: parseIDSet(st.Goals)}
}

func parseIDSet(in map[string]bool) map[mindmap.NodeID]bool {
	out := make(map[mindmap.NodeID]bool, len(in))
	for s, open := range in {
		if !open {
			continue
		}
		if id, err := mindmap.ParseNodeID(s); err == nil {
			out[id] = true
		}
	}
	return out
}

func ExpansionStateFrom(exp mindmap.Expansion) ExpansionState {
	st := NewExpansionState()
	for id, open := range exp.Nodes {
		if open {
			st.Nodes[id.String()] = true
		}
	}
	for id, open := range exp.Goals {
		if open {
			st.Goals[id.String()] = true
		}
	}
	return st
}

// ExpansionStore keeps ExpansionState per document in a small SQLite db under the
// config dir. The state is best effort; the document never depends on it.
type ExpansionStore struct {
	db *sql.DB
}

// DefaultExpansionStorePath is <configdir>/ui_state.sqlite.
func DefaultExpansionStorePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, uiStateFileName), nil
}

func OpenExpansionStore(ctx context.Context, path string) (*ExpansionStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("expansion store: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets a CLI read while the TUI writes; busy_timeout avoids "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateUIState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ExpansionStore{db: db}, nil
}

func migrateUIState(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS expansion (
		doc_path TEXT NOT NULL,
		kind TEXT NOT NULL,
		node_id TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL,
		PRIMARY KEY (doc_path, kind, node_id)
	);`)
	return err
}

func (s *ExpansionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *ExpansionStore) Load(ctx context.Context, docPath string) (ExpansionState, error) {
	st := NewExpansionState()
	rows, err := s.db.QueryContext(ctx, `SELECT kind, node_id FROM expansion WHERE doc_path = ?`, docPath)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind, id string
		if err := rows.Scan(&kind, &id); err != nil {
			return st, err
		}
		switch kind {
		case expansionKindNode:
			st.Nodes[id] = true
		case expansionKindGoal:
			st.Goals[id] = true
		}
	}
	return st, rows.Err()
}

// Save replaces the stored state for docPath. Only true entries are kept.
func (s *ExpansionStore) Save(ctx context.Context, docPath string, st ExpansionState) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expansion WHERE doc_path = ?`, docPath); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for kind, set := range map[string]map[string]bool{expansionKindNode: st.Nodes, expansionKindGoal: st.Goals} {
		for id, open := range set {
			if !open || strings.TrimSpace(id) == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO expansion(doc_path, kind, node_id, updated_at_unixms) VALUES(?, ?, ?, ?)`,
				docPath, kind, id, nowMs); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
