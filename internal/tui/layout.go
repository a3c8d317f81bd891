package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines, so
// stacked panes never reflow the frame.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		// Bound the width computation on huge lines.
		if width > 0 && len(ln) > 8192 {
			ln = cutWithMarker(ln, width)
		}
		w := xansi.StringWidth(ln)
		if w > width {
			ln = cutWithMarker(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

func cutWithMarker(s string, width int) string {
	switch {
	case width <= 0:
		return ""
	case width == 1:
		return xansi.Cut(s, 0, 1)
	default:
		return xansi.Cut(s, 0, width-1) + "…"
	}
}

// truncate cuts plain or styled text to width columns with a trailing marker.
func truncate(s string, width int) string {
	if xansi.StringWidth(s) <= width {
		return s
	}
	return cutWithMarker(s, width)
}
