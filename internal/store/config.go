package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultDocumentName = "todo.md"

type GlobalConfig struct {
	// CurrentFile is the document opened when no --file flag or TODOMAP_FILE is given.
	CurrentFile string `json:"currentFile,omitempty"`

	// SaveDebounceMs is the debounced save window in the TUI.
	SaveDebounceMs int `json:"saveDebounceMs,omitempty"`

	BackupIntervalMinutes int `json:"backupIntervalMinutes,omitempty"`
	// BackupDir overrides the default `backups/` directory beside the document.
	BackupDir    string `json:"backupDir,omitempty"`
	BackupKeep   int    `json:"backupKeep,omitempty"`
	BackupPrefix string `json:"backupPrefix,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is the appearance profile id ("default", "mono", "high-contrast").
	Theme string `json:"theme,omitempty"`
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

func (c *GlobalConfig) SaveDebounce() time.Duration {
	if c == nil || c.SaveDebounceMs <= 0 {
		return DefaultSaveDebounce
	}
	return time.Duration(c.SaveDebounceMs) * time.Millisecond
}

func (c *GlobalConfig) BackupInterval() time.Duration {
	if c == nil || c.BackupIntervalMinutes <= 0 {
		return DefaultBackupEvery
	}
	return time.Duration(c.BackupIntervalMinutes) * time.Minute
}

// BackupPolicyFor returns the retention policy for the document at s. An empty
// configured prefix means the document's own stem.
func (c *GlobalConfig) BackupPolicyFor(s Store) BackupPolicy {
	p := BackupPolicy{Keep: DefaultBackupKeep, Prefix: s.Stem()}
	if c == nil {
		return p
	}
	if c.BackupKeep > 0 {
		p.Keep = c.BackupKeep
	}
	if v := strings.TrimSpace(c.BackupPrefix); v != "" {
		p.Prefix = v
	}
	return p
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.todomap).
	if v := strings.TrimSpace(os.Getenv("TODOMAP_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todomap"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config; failures here never block the write.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp names keep a CLI and a TUI writing at once from clobbering each other.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ResolveDocumentPath picks the document path: flag, then TODOMAP_FILE, then the
// config's CurrentFile, then ./todo.md. The result is absolute.
func ResolveDocumentPath(flag string, cfg *GlobalConfig) (string, error) {
	candidates := []string{flag, os.Getenv("TODOMAP_FILE")}
	if cfg != nil {
		candidates = append(candidates, cfg.CurrentFile)
	}
	candidates = append(candidates, DefaultDocumentName)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		p, err := expandHome(c)
		if err != nil {
			return "", err
		}
		return filepath.Abs(p)
	}
	return "", errors.New("no document path")
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
