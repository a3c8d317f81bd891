package tui

import (
	"os"
	"strings"
	"sync"

	"todomap/internal/store"

	"github.com/charmbracelet/lipgloss"
)

type appearanceProfileID string

const (
	appearanceDefault      appearanceProfileID = "default"
	appearanceMono         appearanceProfileID = "mono"
	appearanceHighContrast appearanceProfileID = "high-contrast"
)

var (
	appearanceMu      sync.RWMutex
	currentAppearance = appearanceDefault
)

// applyAppearancePreference picks the profile from TODOMAP_TUI_PROFILE, then the config.
func applyAppearancePreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("TODOMAP_TUI_PROFILE")))
	if v == "" && cfg != nil && cfg.TUI != nil {
		v = strings.ToLower(strings.TrimSpace(cfg.TUI.Theme))
	}
	if v == "" {
		v = string(appearanceDefault)
	}
	setAppearanceProfile(appearanceProfileID(v))
}

// setAppearanceProfile swaps the palette. Unknown ids are ignored.
func setAppearanceProfile(id appearanceProfileID) {
	appearanceMu.Lock()
	defer appearanceMu.Unlock()

	switch id {
	case appearanceDefault:
		resetPalette()
	case appearanceMono:
		resetPalette()
		// Attributes only.
		none := lipgloss.NoColor{}
		colorMuted = none
		colorSurfaceFg = none
		colorAccent = none
		colorHeader = none
		colorError = none
		colorSelectedFg = ac("0", "0")
		colorSelectedBg = ac("250", "250")
	case appearanceHighContrast:
		resetPalette()
		colorMuted = ac("235", "252")
		colorSurfaceFg = ac("0", "15")
		colorAccent = ac("19", "51")
		colorHeader = ac("0", "15")
		colorError = ac("124", "196")
		colorSelectedFg = ac("15", "0")
		colorSelectedBg = ac("0", "15")
	default:
		return
	}
	currentAppearance = id
}

func resetPalette() {
	colorMuted = defaultColorMuted
	colorSurfaceFg = defaultColorSurfaceFg
	colorAccent = defaultColorAccent
	colorSelectedBg = defaultColorSelectedBg
	colorSelectedFg = defaultColorSelectedFg
	colorControlBg = defaultColorControlBg
	colorError = defaultColorError
	colorHeader = defaultColorHeader
}

func appearance() appearanceProfileID {
	appearanceMu.RLock()
	defer appearanceMu.RUnlock()
	return currentAppearance
}

// branchColor is the color for a mind-map branch. The mono profile drops branch colors.
func branchColor(hex string) lipgloss.TerminalColor {
	if appearance() == appearanceMono || strings.TrimSpace(hex) == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}
