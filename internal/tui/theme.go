package tui

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The TUI must stay readable on light and dark backgrounds, so colors are adaptive and
// faint styling is only used on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	defaultColorMuted      = ac("240", "243")
	defaultColorSurfaceFg  = ac("235", "252")
	defaultColorAccent     = ac("27", "62")
	defaultColorSelectedBg = ac("#e9e9e9", "#262626")
	defaultColorSelectedFg = ac("235", "255")
	defaultColorControlBg  = ac("252", "235")
	defaultColorError      = ac("160", "203")
	defaultColorHeader     = ac("238", "250")

	colorMuted      lipgloss.TerminalColor = defaultColorMuted
	colorSurfaceFg  lipgloss.TerminalColor = defaultColorSurfaceFg
	colorAccent     lipgloss.TerminalColor = defaultColorAccent
	colorSelectedBg lipgloss.TerminalColor = defaultColorSelectedBg
	colorSelectedFg lipgloss.TerminalColor = defaultColorSelectedFg
	colorControlBg  lipgloss.TerminalColor = defaultColorControlBg
	colorError      lipgloss.TerminalColor = defaultColorError
	colorHeader     lipgloss.TerminalColor = defaultColorHeader
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleSection() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError).Bold(true)
}

func styleTab(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	}
	return styleMuted()
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI. Only NO_COLOR
// is honored; CLICOLOR-style variables would disable color in an interactive program.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector found.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) TODOMAP_TUI_THEME=light|dark|auto
// 2) TODOMAP_TUI_DARKBG=true|false
// 3) COLORFGBG ("fg;bg")
// 4) macOS appearance
func applyThemePreference() {
	if dark, ok := themeFromEnv(); ok {
		lipgloss.SetHasDarkBackground(dark)
		return
	}
	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			lipgloss.SetHasDarkBackground(dark)
		}
	}
}

// themeFromEnv reports the background the environment asks for, if any.
func themeFromEnv() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TODOMAP_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(os.Getenv("TODOMAP_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// xterm palette: 0-6 are dark.
			return bg < 7, true
		}
	}
	return false, false
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// Prints "Dark" in dark mode; exits 1 in light mode because the key is missing.
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
