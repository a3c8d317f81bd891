package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided because its terminal
	// queries can block.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders the goals text for the goals pane. On any renderer error the
// source is returned as is.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	styleName := markdownStyle()
	key := styleName + ":" + string(appearance()) + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		cfg := markdownStyleConfig(styleName)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	} else {
		cfg = styles.DarkStyleConfig
	}
	applyMarkdownPalette(&cfg, styleName)
	return cfg
}

// markdownStyle follows the TUI theme preference, then Lip Gloss's detection.
func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TODOMAP_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if dark, ok := themeFromEnv(); ok {
		if dark {
			return "dark"
		}
		return "light"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func applyMarkdownPalette(cfg *ansi.StyleConfig, styleName string) {
	// Goal headers are bold lines, and tags should not pick up keyword colors.
	heading := mdColor(colorSurfaceFg, styleName)
	cfg.Heading.Color = heading
	cfg.H1.Color = heading
	cfg.H2.Color = heading
	cfg.H3.Color = heading

	link := mdColor(colorAccent, styleName)
	cfg.Link.Color = link
	cfg.Link.Underline = mdBoolPtr(true)
	cfg.LinkText.Color = link

	cfg.Code.Color = mdColor(colorSurfaceFg, styleName)
	cfg.CodeBlock.Color = mdColor(colorSurfaceFg, styleName)
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = mdColor(colorControlBg, styleName)
	}
	cfg.Text.Color = mdColor(colorSurfaceFg, styleName)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = mdBoolPtr(false)
}

// mdColor picks the variant of c for styleName. NoColor leaves the element uncolored.
func mdColor(c lipgloss.TerminalColor, styleName string) *string {
	var v string
	switch c := c.(type) {
	case lipgloss.AdaptiveColor:
		v = c.Dark
		if styleName == "light" {
			v = c.Light
		}
	case lipgloss.Color:
		v = string(c)
	}
	if v == "" {
		return nil
	}
	return &v
}

func mdBoolPtr(b bool) *bool { return &b }
