// Package goals extracts tagged goal records from the free-text goals block of a
// todo document.
//
// Recognized shapes:
//
//	**People** #people        bold header, opens the "people" section
//	# Health #health          single-# heading, same
//	- Hire dev                bullet appended to the open section
//	Renew passport #admin     any line ending in #tag goes to that tag's record
//
// A header without a tag closes the open section; untagged lines with no open
// section are discarded and counted.
package goals

import (
	"regexp"
	"sort"
	"strings"

	"todomap/internal/model"
)

// Reserved tags mark urgency, not topics, and never become goal records.
var reservedTags = map[string]bool{
	"today":  true,
	"urgent": true,
}

func IsReserved(tag string) bool {
	return reservedTags[strings.ToLower(strings.TrimSpace(tag))]
}

type Result struct {
	Records []model.GoalRecord `json:"records"`
	// Discarded counts untagged content lines seen while no section was open.
	Discarded int `json:"discarded"`
}

var (
	trailingTag   = regexp.MustCompile(`(^|\s)#([^\s#]+)\s*$`)
	boldHeader    = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	hashHeading   = regexp.MustCompile(`^#\s+(.*)$`)
	orderedPrefix = regexp.MustCompile(`^\d+\.\s+`)
)

// Extract scans goalsText line by line. Records are merged by tag (title from the first
// occurrence, items in encounter order) and returned sorted by tag.
func Extract(goalsText string) Result {
	ex := extractor{byTag: map[string]*model.GoalRecord{}}
	for _, raw := range strings.Split(goalsText, "\n") {
		ex.line(raw)
	}

	out := Result{Discarded: ex.discarded, Records: make([]model.GoalRecord, 0, len(ex.byTag))}
	for _, rec := range ex.byTag {
		out.Records = append(out.Records, *rec)
	}
	sort.Slice(out.Records, func(i, j int) bool { return out.Records[i].Tag < out.Records[j].Tag })
	return out
}

// WithoutReserved drops records whose tag is reserved.
func WithoutReserved(records []model.GoalRecord) []model.GoalRecord {
	out := make([]model.GoalRecord, 0, len(records))
	for _, r := range records {
		if IsReserved(r.Tag) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type extractor struct {
	byTag     map[string]*model.GoalRecord
	current   string // tag of the open section, "" when none
	discarded int
}

func (ex *extractor) line(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	if title, tag, ok := parseHeader(line); ok {
		if tag == "" {
			ex.current = ""
			return
		}
		if title == "" {
			title = "#" + tag
		}
		ex.record(tag, title)
		ex.current = tag
		return
	}

	content := stripListMarker(line)
	if body, tag, ok := splitTrailingTag(content); ok {
		rec := ex.record(tag, "#"+tag)
		if body != "" {
			rec.Items = append(rec.Items, body)
		}
		return
	}
	if ex.current != "" {
		rec := ex.byTag[ex.current]
		rec.Items = append(rec.Items, content)
		return
	}
	ex.discarded++
}

// record returns the record for tag, creating it with title if missing.
func (ex *extractor) record(tag, title string) *model.GoalRecord {
	if rec, ok := ex.byTag[tag]; ok {
		return rec
	}
	rec := &model.GoalRecord{Title: title, Tag: tag}
	ex.byTag[tag] = rec
	return rec
}

// parseHeader recognizes `**title** [#tag]` and `# title [#tag]`.
func parseHeader(line string) (title string, tag string, ok bool) {
	rest, tag, _ := splitTrailingTag(line)
	if m := boldHeader.FindStringSubmatch(rest); m != nil {
		return strings.TrimSpace(strings.Trim(m[1], "*")), tag, true
	}
	if m := hashHeading.FindStringSubmatch(rest); m != nil {
		return strings.TrimSpace(m[1]), tag, true
	}
	// `# #tag` collapses to an empty heading with a tag.
	if rest == "#" && tag != "" {
		return "", tag, true
	}
	return "", "", false
}

// splitTrailingTag strips the last whitespace-#word at the end of line. The tag is
// lowercased; the remainder is trimmed.
func splitTrailingTag(line string) (rest string, tag string, ok bool) {
	loc := trailingTag.FindStringSubmatchIndex(line)
	if loc == nil {
		return strings.TrimSpace(line), "", false
	}
	tag = strings.ToLower(line[loc[4]:loc[5]])
	return strings.TrimSpace(line[:loc[0]]), tag, true
}

func stripListMarker(line string) string {
	switch {
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return strings.TrimSpace(line[2:])
	}
	if loc := orderedPrefix.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:])
	}
	return line
}
