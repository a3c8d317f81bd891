package tui

import (
	"os"
	"strings"
	"sync"

	"todomap/internal/store"
)

// Some fonts render box drawing and arrows poorly, so every affordance has an ASCII
// fallback.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads TODOMAP_TUI_GLYPHS, then the config. Unknown values keep the
// current set.
func applyGlyphPreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("TODOMAP_TUI_GLYPHS")))
	if v == "" && cfg != nil && cfg.TUI != nil {
		v = strings.ToLower(strings.TrimSpace(cfg.TUI.Glyphs))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pick("▸", ">") }
func glyphTwistyExpanded() string  { return pick("▾", "v") }
func glyphBullet() string          { return pick("•", "*") }
func glyphHRule() string           { return pick("─", "-") }
func glyphVRule() string           { return pick("│", "|") }
func glyphJunction() string        { return pick("┼", "+") }
func glyphCenter() string          { return pick("◉", "@") }
func glyphStar() string            { return pick("★", "*") }

func glyphCheckbox(done bool) string {
	if done {
		return pick("☑", "[x]")
	}
	return pick("☐", "[ ]")
}
