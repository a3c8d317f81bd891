package markdown

import (
	"strings"

	"todomap/internal/model"
)

// section identifies the region of the document the parser is currently in.
type section int

const (
	sectionNone section = iota
	sectionGoals
	sectionBigThings
	sectionTopPriority
	sectionDeleted
	sectionTasks
)

const (
	documentTitle = "# Todo List"

	level2Prefix = "## "
	level3Prefix = "### "
)

// marker maps one heading to a section. The serializer writes Heading; the parser
// recognizes a heading when it contains Glyph (or, for markers with Keyword set,
// when the lowercased heading contains Keyword).
type marker struct {
	Heading string
	Glyph   string
	Keyword string

	Section  section
	Priority model.Priority
}

func (m marker) matches(text string) bool {
	if m.Glyph != "" && strings.Contains(text, m.Glyph) {
		return true
	}
	if m.Keyword != "" && strings.Contains(strings.ToLower(text), m.Keyword) {
		return true
	}
	return false
}

var (
	markerGoals     = marker{Heading: "🎯 Goals", Glyph: "🎯", Section: sectionGoals}
	markerBigThings = marker{Heading: "🧱 Big Things", Glyph: "🧱", Section: sectionBigThings}

	markerTopPriority = marker{Heading: "⭐ Top Priority", Glyph: "⭐", Keyword: "top priority", Section: sectionTopPriority}
	markerCompleted   = marker{Heading: "✅ Completed", Glyph: "✅", Section: sectionTasks, Priority: model.PriorityNormal}
	markerDeleted     = marker{Heading: "🗑 Deleted", Glyph: "🗑", Section: sectionDeleted}
	markerWhenTime    = marker{Heading: "🟢 When there's time", Glyph: "🟢", Section: sectionTasks, Priority: legacyPriority("When there's time")}
)

// bucketMarkers are the level-3 headings for incomplete main-list tasks, in
// serialization order.
var bucketMarkers = []marker{
	{Heading: "📅 Today", Glyph: "📅", Section: sectionTasks, Priority: model.PriorityToday},
	{Heading: "🗓 This Week", Glyph: "🗓", Section: sectionTasks, Priority: model.PriorityThisWeek},
	{Heading: "🔴 Urgent", Glyph: "🔴", Section: sectionTasks, Priority: model.PriorityUrgent},
	{Heading: "🟡 Normal", Glyph: "🟡", Section: sectionTasks, Priority: model.PriorityNormal},
}

// level2Markers and level3Markers are checked in order; the first match wins.
var level2Markers = []marker{markerGoals, markerBigThings}

var level3Markers = func() []marker {
	out := []marker{markerTopPriority}
	out = append(out, bucketMarkers...)
	out = append(out, markerWhenTime, markerCompleted, markerDeleted)
	return out
}()

func lookupMarker(table []marker, heading string) (marker, bool) {
	for _, m := range table {
		if m.matches(heading) {
			return m, true
		}
	}
	return marker{}, false
}

func bucketHeading(p model.Priority) string {
	for _, m := range bucketMarkers {
		if m.Priority == p {
			return m.Heading
		}
	}
	return markerWhenTime.Heading
}

// legacyPriority decodes a retired bucket name through the priority migration.
func legacyPriority(name string) model.Priority {
	p, _ := model.ParsePriority(name)
	return p
}
