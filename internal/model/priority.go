package model

import (
	"fmt"
	"strings"
)

// Priority is the bucket a task is grouped under on load and save.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityToday
	PriorityThisWeek
	PriorityUrgent
)

// Priorities lists every priority in serialization order.
var Priorities = []Priority{PriorityToday, PriorityThisWeek, PriorityUrgent, PriorityNormal}

func (p Priority) String() string {
	switch p {
	case PriorityToday:
		return "today"
	case PriorityThisWeek:
		return "this-week"
	case PriorityUrgent:
		return "urgent"
	default:
		return "normal"
	}
}

// Label is the human-facing name used in headings and the TUI.
func (p Priority) Label() string {
	switch p {
	case PriorityToday:
		return "Today"
	case PriorityThisWeek:
		return "This Week"
	case PriorityUrgent:
		return "Urgent"
	default:
		return "Normal"
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityToday, PriorityThisWeek, PriorityUrgent:
		return true
	}
	return false
}

// Next cycles through priorities in serialization order.
func (p Priority) Next() Priority {
	for i, have := range Priorities {
		if have == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityNormal
}

// ParsePriority decodes a priority name. Legacy names are migrated (see migrateLegacyPriority).
func ParsePriority(s string) (Priority, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "today":
		return PriorityToday, nil
	case "this-week", "thisweek", "this week", "week":
		return PriorityThisWeek, nil
	case "urgent":
		return PriorityUrgent, nil
	case "normal", "":
		return PriorityNormal, nil
	}
	if p, ok := migrateLegacyPriority(key); ok {
		return p, nil
	}
	return PriorityNormal, fmt.Errorf("unknown priority: %q", s)
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
