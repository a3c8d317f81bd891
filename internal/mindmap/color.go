package mindmap

import (
	"encoding/binary"
	"strings"
	"sync"
)

// DefaultPalette is the branch color set, as hex strings.
var DefaultPalette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F",
	"#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC",
}

// ColorAssigner hands out palette colors to tags. Each new tag takes the next unused
// palette color; once the palette is exhausted colors are picked by tag hash. A tag
// keeps its color for the life of the assigner.
type ColorAssigner struct {
	mu       sync.Mutex
	palette  []string
	assigned map[string]string
	next     int
}

func NewColorAssigner(palette []string) *ColorAssigner {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &ColorAssigner{
		palette:  append([]string(nil), palette...),
		assigned: map[string]string{},
	}
}

func (a *ColorAssigner) ColorFor(tag string) string {
	key := strings.ToLower(strings.TrimSpace(tag))
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.assigned[key]; ok {
		return c
	}
	var c string
	if a.next < len(a.palette) {
		c = a.palette[a.next]
		a.next++
	} else {
		c = a.palette[tagHash(key)%uint64(len(a.palette))]
	}
	a.assigned[key] = c
	return c
}

// Reset forgets every assignment.
func (a *ColorAssigner) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.assigned = map[string]string{}
	a.next = 0
}

func tagHash(tag string) uint64 {
	u := NodeIDForTag(tag).u
	return binary.BigEndian.Uint64(u[:8])
}
