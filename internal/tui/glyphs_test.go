package tui

import (
	"testing"

	"todomap/internal/store"
)

func TestGlyphs_FromEnvThenConfig(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	t.Setenv("TODOMAP_TUI_GLYPHS", "")
	setGlyphs(glyphSetASCII)
	applyGlyphPreference(nil)
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}

	cfg := &store.GlobalConfig{TUI: &store.TUIConfig{Glyphs: "ascii"}}
	applyGlyphPreference(cfg)
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected config to select ascii; got %v", got)
	}

	t.Setenv("TODOMAP_TUI_GLYPHS", "unicode")
	applyGlyphPreference(cfg)
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected env to win over config; got %v", got)
	}

	// Unknown values keep the current set.
	setGlyphs(glyphSetASCII)
	t.Setenv("TODOMAP_TUI_GLYPHS", "bogus")
	applyGlyphPreference(nil)
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}
	if glyphCheckbox(true) != "[x]" || glyphHRule() != "-" {
		t.Fatalf("ascii glyphs = %q %q", glyphCheckbox(true), glyphHRule())
	}
}
